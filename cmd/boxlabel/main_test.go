package main

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/boxlabel/internal/export"
	"github.com/example/boxlabel/internal/imagesrc"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out bytes.Buffer
	app := newApp(&Flags{})
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(context.Background(), append([]string{"boxlabel", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, imagesrc.Save(img, path))
	return path
}

func writeRecord(t *testing.T, rec export.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.boxes.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, export.Write(f, rec))
	return path
}

func sampleRecord(w, h float64) export.Record {
	return export.Record{
		ImageWidth:  w,
		ImageHeight: h,
		Result: []export.Item{
			{ID: 1, Label: "car", Points: [2][2]float64{{10, 10}, {60, 50}}, Type: export.TypeRectangle},
		},
	}
}

func TestExportAssignsSubmission(t *testing.T) {
	img := writeImage(t, 200, 100)
	rec := writeRecord(t, sampleRecord(200, 100))

	out, err := run(t, "export", "--file", img, "--record", rec)
	require.NoError(t, err)

	got, err := export.Read(strings.NewReader(out))
	require.NoError(t, err)
	assert.NotEmpty(t, got.Submission)
	assert.Equal(t, img, got.ImageSrc)
	require.Len(t, got.Result, 1)
	assert.Equal(t, "car", got.Result[0].Label)
}

func TestExportToFile(t *testing.T) {
	rec := writeRecord(t, sampleRecord(200, 100))
	dest := filepath.Join(t.TempDir(), "out.json")

	out, err := run(t, "export", "--record", rec, "--output", dest)
	require.NoError(t, err)
	assert.Empty(t, out)
	got, err := readRecordFile(dest)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Submission)
}

func TestExportErrors(t *testing.T) {
	img := writeImage(t, 200, 100)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "dimension mismatch",
			args:    []string{"export", "--file", img, "--record", writeRecord(t, sampleRecord(400, 200))},
			wantErr: "record is for a 400x200 image",
		},
		{
			name: "point outside image",
			args: []string{"export", "--record", writeRecord(t, export.Record{
				ImageWidth: 50, ImageHeight: 50,
				Result: []export.Item{{ID: 1, Points: [2][2]float64{{0, 0}, {80, 10}}, Type: export.TypeRectangle}},
			})},
			wantErr: "invalid record",
		},
		{
			name:    "no source",
			args:    []string{"export"},
			wantErr: "--record or --from-clipboard",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPreviewWritesImage(t *testing.T) {
	img := writeImage(t, 120, 80)
	rec := writeRecord(t, sampleRecord(120, 80))
	dest := filepath.Join(t.TempDir(), "preview.png")

	_, err := run(t, "preview", "--file", img, "--record", rec, "--out", dest)
	require.NoError(t, err)

	got, err := imagesrc.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), got.Bounds())

	_, err = run(t, "preview", "--file", img, "--record", rec, "--out", dest, "--shadow")
	require.NoError(t, err)
	got, err = imagesrc.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 152, 112), got.Bounds())
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "car")
	assert.Contains(t, out, "#e6194b")

	path := filepath.Join(t.TempDir(), "cats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - title: dog\n    color: brown\n"), 0o644))
	out, err = run(t, "categories", "--categories", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: dog")
	assert.Contains(t, out, "color: brown")

	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - title: dog\n    color: brown\n  - title: dog\n    color: red\n"), 0o644))
	_, err = run(t, "categories", "--categories", path)
	require.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxlabel.rc")
	require.NoError(t, os.WriteFile(path, []byte("theme = dark\n[notify]\ncopy = true\n"), 0o644))

	out, err := run(t, "--config", path, "config", "print")
	require.NoError(t, err)
	assert.Contains(t, out, "theme = dark")
	assert.Contains(t, out, "copy = true")

	out, err = run(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	missing := filepath.Join(t.TempDir(), "sub", "new.rc")
	out, err = run(t, "--config", missing, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "(not created)")

	_, err = run(t, "--config", missing, "config", "save")
	require.NoError(t, err)
	data, err := os.ReadFile(missing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[notify]")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "boxlabel version dev"), out)
}

func TestAnnotateNeedsOneSource(t *testing.T) {
	_, err := run(t, "annotate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of --file, --capture or --region is required")

	_, err = run(t, "annotate", "--file", "a.png", "--capture")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}
