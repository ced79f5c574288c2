// Package app hosts the interactive annotation window.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/boxlabel/internal/annotate"
	"github.com/example/boxlabel/internal/category"
	"github.com/example/boxlabel/internal/clipboard"
	"github.com/example/boxlabel/internal/export"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/history"
	"github.com/example/boxlabel/internal/imagesrc"
	"github.com/example/boxlabel/internal/notify"
	"github.com/example/boxlabel/internal/surface"
	"github.com/example/boxlabel/internal/theme"
	"github.com/example/boxlabel/internal/viewport"
)

const (
	// wheelStep is how far one wheel notch pans the view, in screen pixels.
	wheelStep   = 40
	messageTime = 2 * time.Second
	// RecordSuffix is appended to the image base name when submitting.
	RecordSuffix = ".boxes.json"
)

// ErrBusy is returned when an action needs the pointer gesture to finish.
var ErrBusy = errors.New("a pointer gesture is in progress")

// Session is the window-independent part of the annotation UI: it turns
// key and mouse events into engine operations and produces frames.
type Session struct {
	img      image.Image
	source   string
	original geom.Size
	size     geom.Size

	view    *viewport.Transform
	machine *annotate.Machine
	ctl     *annotate.Controls
	cats    category.Set
	catIdx  int

	theme *theme.Theme
	surf  *surface.Surface
	keys  *Keymap

	outputDir  string
	handleSize float64
	notifier   *notify.Notifier
	writeText  func(string) error
	writeImage func(image.Image) error
	now        func() time.Time
	onChange   func()

	message      string
	messageUntil time.Time
	done         bool
}

// Option configures a Session.
type Option func(*Session)

// WithCategories sets the category picker contents.
func WithCategories(set category.Set) Option {
	return func(s *Session) { s.cats = set }
}

// WithTheme sets the surface colours.
func WithTheme(th *theme.Theme) Option {
	return func(s *Session) { s.theme = th }
}

// WithOutputDir sets where submitted records are written.
func WithOutputDir(dir string) Option {
	return func(s *Session) { s.outputDir = dir }
}

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithHandleSize sets the resize handle hit size in screen pixels.
func WithHandleSize(px float64) Option {
	return func(s *Session) { s.handleSize = px }
}

// WithClipboard replaces the clipboard writers.
func WithClipboard(text func(string) error, img func(image.Image) error) Option {
	return func(s *Session) { s.writeText, s.writeImage = text, img }
}

// WithClock sets the time source used for transient messages.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOnChange registers a callback run whenever the session needs a redraw.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession prepares an annotation session for img loaded from source.
func NewSession(img image.Image, source string, opts ...Option) *Session {
	s := &Session{
		img:        img,
		source:     source,
		original:   imagesrc.SizeOf(img),
		cats:       category.Default(),
		outputDir:  ".",
		writeText:  clipboard.WriteText,
		writeImage: clipboard.WriteImage,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.theme == nil {
		s.theme = theme.Default()
	}
	s.surf = surface.New(s.theme, surface.WithColorResolver(category.ParseColor))

	first := s.cats.At(0)
	s.ctl = annotate.NewControls(annotate.ToolBounding, annotate.Style{Label: first.Title, Color: first.Color})
	s.view = viewport.New(viewport.WithOnChange(s.changed))
	mopts := []annotate.Option{
		annotate.WithTools(s.ctl),
		annotate.WithStyles(s.ctl),
		annotate.WithOnChange(s.changed),
	}
	if s.handleSize > 0 {
		mopts = append(mopts, annotate.WithHandleSize(s.handleSize))
	}
	s.machine = annotate.New(s.view, history.New(history.Capacity), mopts...)
	s.keys = s.bindKeys()
	return s
}

// Machine exposes the annotation engine.
func (s *Session) Machine() *annotate.Machine { return s.machine }

// Surface returns the surface frames are painted with.
func (s *Session) Surface() *surface.Surface { return s.surf }

// Keymap returns the key bindings.
func (s *Session) Keymap() *Keymap { return s.keys }

// Size returns the current surface size.
func (s *Session) Size() geom.Size { return s.size }

// Done reports whether the user asked to quit.
func (s *Session) Done() bool { return s.done }

// SetOnChange replaces the redraw callback.
func (s *Session) SetOnChange(fn func()) { s.onChange = fn }

// Resize recomputes the image placement for a new surface size.
func (s *Session) Resize(width, height int) {
	s.size = geom.Size{Width: float64(width), Height: float64(height)}
	info := imagesrc.Place(s.source, s.original, s.size)
	s.view.SetBounds(s.size, info)
	s.machine.SetImageInfo(info)
}

// Blur finalizes any gesture when the window loses focus.
func (s *Session) Blur() {
	s.ctl.Release()
	s.machine.ReleaseCapture()
}

// HandleMouse routes a pointer event.
func (s *Session) HandleMouse(e mouse.Event) {
	p := geom.Pt(float64(e.X), float64(e.Y))
	switch e.Button {
	case mouse.ButtonWheelUp, mouse.ButtonWheelDown, mouse.ButtonWheelLeft, mouse.ButtonWheelRight:
		if e.Direction == mouse.DirRelease {
			return
		}
		s.wheel(e.Button, e.Modifiers, p)
		return
	case mouse.ButtonLeft:
		switch e.Direction {
		case mouse.DirPress:
			s.machine.PointerDown(p)
			return
		case mouse.DirRelease:
			s.machine.PointerUp(p)
			return
		}
	}
	if e.Direction == mouse.DirNone {
		s.machine.PointerMove(p)
	}
}

func (s *Session) wheel(b mouse.Button, mods key.Modifiers, at geom.Point) {
	if mods&key.ModControl != 0 {
		switch b {
		case mouse.ButtonWheelUp:
			s.view.ApplyZoom(viewport.ZoomIn, at)
		case mouse.ButtonWheelDown:
			s.view.ApplyZoom(viewport.ZoomOut, at)
		}
		return
	}
	var d geom.Point
	switch b {
	case mouse.ButtonWheelUp:
		d.Y = wheelStep
	case mouse.ButtonWheelDown:
		d.Y = -wheelStep
	case mouse.ButtonWheelLeft:
		d.X = wheelStep
	case mouse.ButtonWheelRight:
		d.X = -wheelStep
	}
	s.view.PanBy(d)
}

// HandleKey routes a key event and reports whether it was bound.
func (s *Session) HandleKey(e key.Event) bool {
	if e.Code == key.CodeSpacebar {
		switch e.Direction {
		case key.DirPress:
			s.ctl.Hold(annotate.ToolMove)
		case key.DirRelease:
			s.ctl.Release()
		}
		s.changed()
		return true
	}
	if e.Direction == key.DirRelease {
		return false
	}
	name, ok := s.keys.Lookup(e)
	if !ok {
		return false
	}
	if s.keys.Trigger(name) {
		s.changed()
	}
	return true
}

func (s *Session) bindKeys() *Keymap {
	k := NewKeymap()
	tool := func(t annotate.Tool) func() bool {
		return func() bool {
			s.ctl.SetTool(t)
			return true
		}
	}
	k.Register("select", tool(annotate.ToolSelect), KeyShortcut{Code: key.CodeS})
	k.Register("move", tool(annotate.ToolMove), KeyShortcut{Code: key.CodeM})
	k.Register("bounding", tool(annotate.ToolBounding), KeyShortcut{Code: key.CodeB})

	digits := []key.Code{key.Code1, key.Code2, key.Code3, key.Code4, key.Code5, key.Code6, key.Code7, key.Code8, key.Code9}
	for i, code := range digits {
		k.Register(fmt.Sprintf("category%d", i+1), func() bool { return s.SelectCategory(i) },
			KeyShortcut{Code: code}, KeyShortcut{Rune: rune('1' + i)})
	}

	k.Register("zoom-in", func() bool { return s.zoomCentre(viewport.ZoomIn) },
		KeyShortcut{Rune: '+'}, KeyShortcut{Rune: '='}, KeyShortcut{Code: key.CodeKeypadPlusSign})
	k.Register("zoom-out", func() bool { return s.zoomCentre(viewport.ZoomOut) },
		KeyShortcut{Rune: '-'}, KeyShortcut{Code: key.CodeKeypadHyphenMinus})
	k.Register("reset", func() bool {
		s.machine.ResetView()
		return true
	}, KeyShortcut{Code: key.Code0}, KeyShortcut{Code: key.CodeR})

	k.Register("undo", s.machine.Undo, KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl})
	k.Register("redo", s.machine.Redo,
		KeyShortcut{Code: key.CodeY, Modifiers: key.ModControl},
		KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift})
	k.Register("delete", s.machine.Delete, KeyShortcut{Code: key.CodeDeleteForward}, KeyShortcut{Code: key.CodeDeleteBackspace})
	k.Register("cancel", s.machine.Cancel, KeyShortcut{Code: key.CodeEscape})

	k.Register("submit", func() bool {
		if _, err := s.Submit(); err != nil {
			s.flash("submit failed: %v", err)
		}
		return true
	}, KeyShortcut{Code: key.CodeReturnEnter}, KeyShortcut{Code: key.CodeKeypadEnter})
	k.Register("copy", func() bool {
		if err := s.CopyRecord(); err != nil {
			s.flash("copy failed: %v", err)
		}
		return true
	}, KeyShortcut{Code: key.CodeC, Modifiers: key.ModControl})
	k.Register("copy-image", func() bool {
		if err := s.CopyImage(); err != nil {
			s.flash("copy failed: %v", err)
		}
		return true
	}, KeyShortcut{Code: key.CodeC, Modifiers: key.ModControl | key.ModShift})
	k.Register("quit", func() bool {
		s.done = true
		return false
	}, KeyShortcut{Code: key.CodeQ, Modifiers: key.ModControl})
	return k
}

func (s *Session) zoomCentre(dir viewport.Direction) bool {
	return s.view.ApplyZoom(dir, geom.Pt(s.size.Width/2, s.size.Height/2))
}

// SelectCategory picks the i-th category and relabels the selected box.
func (s *Session) SelectCategory(i int) bool {
	if i < 0 || i >= s.cats.Len() {
		return false
	}
	s.catIdx = i
	c := s.cats.At(i)
	s.ctl.SetStyle(annotate.Style{Label: c.Title, Color: c.Color})
	s.machine.Relabel()
	return true
}

// Category returns the picked category.
func (s *Session) Category() category.Category { return s.cats.At(s.catIdx) }

// Record builds the export record for the current boxes.
func (s *Session) Record() (export.Record, error) {
	info, ok := s.machine.ImageInfo()
	if !ok {
		return export.Record{}, export.ErrNoImage
	}
	return export.Build(s.machine.Boxes(), info)
}

// RecordPath is where Submit writes the record.
func (s *Session) RecordPath() string {
	base := filepath.Base(s.source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "image"
	}
	return filepath.Join(s.outputDir, base+RecordSuffix)
}

// Submit writes the record, then starts a fresh annotation pass: the boxes
// and history are cleared and the view is reset.
func (s *Session) Submit() (string, error) {
	if s.machine.Busy() {
		return "", ErrBusy
	}
	rec, err := s.Record()
	if err != nil {
		return "", err
	}
	path := s.RecordPath()
	if err := writeRecord(path, rec); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Int("boxes", len(rec.Result)).Str("submission", rec.Submission).Msg("submitted")

	if s.notifier != nil {
		preview, err := RenderRecord(context.Background(), s.img, rec, s.theme, s.cats)
		if err != nil {
			log.Warn().Err(err).Msg("render preview")
		}
		var thumb image.Image
		if preview != nil {
			thumb = preview
		}
		s.notifier.Submitted(path, len(rec.Result), thumb)
	}

	s.machine.Clear()
	s.machine.ResetView()
	s.flash("saved %s", filepath.Base(path))
	return path, nil
}

func writeRecord(path string, rec export.Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close record: %w", cerr)
		}
	}()
	return export.Write(f, rec)
}

// CopyRecord copies the export record JSON to the clipboard.
func (s *Session) CopyRecord() error {
	rec, err := s.Record()
	if err != nil {
		return err
	}
	var sb strings.Builder
	if err := export.Write(&sb, rec); err != nil {
		return err
	}
	if err := s.writeText(sb.String()); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	log.Info().Int("boxes", len(rec.Result)).Msg("copied record")
	s.notifier.Copied("annotations")
	s.flash("copied %d boxes", len(rec.Result))
	return nil
}

// CopyImage copies the image with its boxes drawn at original resolution.
func (s *Session) CopyImage() error {
	rec, err := s.Record()
	if err != nil {
		return err
	}
	img, err := RenderRecord(context.Background(), s.img, rec, s.theme, s.cats)
	if err != nil {
		return err
	}
	if err := s.writeImage(img); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	log.Info().Int("boxes", len(rec.Result)).Msg("copied image")
	s.notifier.Copied("annotated image")
	s.flash("copied image")
	return nil
}

// Frame snapshots the state one paint needs.
func (s *Session) Frame() *surface.Frame {
	info, _ := s.machine.ImageInfo()
	f := &surface.Frame{
		Image:      s.img,
		Info:       info,
		View:       s.view.State(),
		Boxes:      s.machine.Boxes(),
		SelectedID: s.machine.SelectedID(),
		HoverID:    s.machine.HoverID(),
		Status:     s.Status(),
	}
	if s.machine.Tool() == annotate.ToolBounding {
		if p, ok := s.machine.Pointer(); ok {
			f.Crosshair = &p
		}
	}
	return f
}

// Status is the status bar text.
func (s *Session) Status() string {
	parts := []string{
		string(s.machine.Tool()),
		s.Category().Title,
		fmt.Sprintf("%d boxes", len(s.machine.Boxes())),
		fmt.Sprintf("%.0f%%", s.view.Scale()*100),
		s.machine.Cursor(),
	}
	if s.message != "" && s.now().Before(s.messageUntil) {
		parts = append(parts, s.message)
	}
	return strings.Join(parts, " | ")
}

func (s *Session) flash(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	s.messageUntil = s.now().Add(messageTime)
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
