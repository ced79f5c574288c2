package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "boxlabel.log")
	l, closeLog, err := New("info", path)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Int("boxes", 3).Msg("submitted")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "submitted", entry["message"])
	assert.Equal(t, 3.0, entry["boxes"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}

func TestNewStderr(t *testing.T) {
	l, closeLog, err := New("warn", "")
	require.NoError(t, err)
	defer closeLog()
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}
