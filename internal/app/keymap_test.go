package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/mobile/event/key"
)

func TestKeymapLookup(t *testing.T) {
	k := NewKeymap()
	k.Register("undo", func() bool { return true }, KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl})
	k.Register("redo", func() bool { return true }, KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift})
	k.Register("zoom-in", func() bool { return true }, KeyShortcut{Rune: '+'})
	k.Register("tool", func() bool { return true }, KeyShortcut{Rune: 'S'})

	tests := []struct {
		name  string
		event key.Event
		want  string
		found bool
	}{
		{"code with ctrl", key.Event{Code: key.CodeZ, Modifiers: key.ModControl}, "undo", true},
		{"code with ctrl shift", key.Event{Code: key.CodeZ, Rune: 'Z', Modifiers: key.ModControl | key.ModShift}, "redo", true},
		{"plain code unbound", key.Event{Code: key.CodeZ, Rune: 'z'}, "", false},
		{"rune needing shift", key.Event{Code: key.CodeEqualSign, Rune: '+', Modifiers: key.ModShift}, "zoom-in", true},
		{"rune is lowercased", key.Event{Rune: 'S', Modifiers: key.ModShift}, "tool", true},
		{"lock modifiers ignored", key.Event{Code: key.CodeZ, Modifiers: key.ModControl | key.Modifiers(1 << 7)}, "undo", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := k.Lookup(tt.event)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeymapTrigger(t *testing.T) {
	k := NewKeymap()
	calls := 0
	k.Register("a", func() bool { calls++; return true })
	k.Register("b", func() bool { return false })
	k.Register("a", func() bool { calls += 10; return true })

	assert.True(t, k.Trigger("a"))
	assert.Equal(t, 10, calls)
	assert.False(t, k.Trigger("b"))
	assert.False(t, k.Trigger("missing"))
	assert.Equal(t, []string{"a", "b"}, k.Actions())
}
