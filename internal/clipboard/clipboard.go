// Package clipboard copies annotation records and rendered images to the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/example/boxlabel/internal/export"
)

// Format identifies a clipboard payload type.
type Format int

const (
	FormatText Format = iota
	FormatPNG
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty reports that the clipboard holds nothing of the requested format.
	ErrEmpty = errors.New("clipboard does not contain the requested data")
)

// WriteText writes UTF-8 text to the clipboard.
func WriteText(text string) error {
	return write(FormatText, []byte(text))
}

// ReadText returns UTF-8 text from the clipboard.
func ReadText() (string, error) {
	data, err := read(FormatText)
	if err != nil {
		return "", err
	}
	// Some applications include a trailing NUL in STRING responses.
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return "", ErrEmpty
	}
	return string(data), nil
}

// WriteImage PNG-encodes img and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return write(FormatPNG, buf.Bytes())
}

// CopyRecord writes rec to the clipboard as indented JSON.
func CopyRecord(rec export.Record) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, rec); err != nil {
		return err
	}
	return WriteText(buf.String())
}

// PasteRecord parses an annotation record from clipboard text.
func PasteRecord() (export.Record, error) {
	text, err := ReadText()
	if err != nil {
		return export.Record{}, err
	}
	return export.Read(bytes.NewReader([]byte(text)))
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
