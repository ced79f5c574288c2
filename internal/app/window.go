package app

import (
	"context"
	"image"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/surface"
)

// frameDropThreshold caps how many in-flight frames a newer paint may cancel
// in a row, so a steady event stream still shows progress.
const frameDropThreshold = 3

// Window shows a Session in a native window.
type Window struct {
	session *Session
	title   string
	width   int
	height  int
	onClose func()
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithTitle sets the window title.
func WithTitle(title string) WindowOption { return func(w *Window) { w.title = title } }

// WithSize sets the initial window size in pixels.
func WithSize(width, height int) WindowOption {
	return func(w *Window) {
		if width > 0 && height > 0 {
			w.width, w.height = width, height
		}
	}
}

// WithOnClose registers a callback run once the window is gone.
func WithOnClose(fn func()) WindowOption { return func(w *Window) { w.onClose = fn } }

// NewWindow wraps sess. Without WithSize the window opens at the image's
// width and the matching letterboxed height, capped to 1280 pixels wide.
func NewWindow(sess *Session, opts ...WindowOption) *Window {
	w := &Window{session: sess, title: "boxlabel"}
	orig := sess.original
	if orig.Width > 0 && orig.Height > 0 {
		w.width = min(int(orig.Width), 1280)
		w.height = int(orig.Height * float64(w.width) / orig.Width)
	}
	if w.width <= 0 || w.height <= 0 {
		w.width, w.height = 1024, 768
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run opens the window and blocks until it closes.
func (a *Window) Run() { driver.Main(a.Main) }

// Main runs the event loop on s.
func (a *Window) Main(s screen.Screen) {
	if a.onClose != nil {
		defer a.onClose()
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.width, Height: a.height, Title: a.title})
	if err != nil {
		log.Error().Err(err).Msg("new window")
		return
	}
	defer w.Release()

	sched := surface.NewScheduler(func() { w.Send(paint.Event{}) })
	a.session.SetOnChange(func() { sched.Request() })
	a.session.Resize(a.width, a.height)

	var (
		paintMu     sync.Mutex
		paintCancel context.CancelFunc
		dropCount   int
	)
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, a.session.Surface(), st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	cancelPaint := func(limit bool) {
		paintMu.Lock()
		defer paintMu.Unlock()
		if paintCancel == nil {
			return
		}
		if limit && dropCount >= frameDropThreshold {
			return
		}
		paintCancel()
		dropCount++
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				cancelPaint(false)
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				a.session.Blur()
			}
		case size.Event:
			a.session.Resize(e.WidthPx, e.HeightPx)
			sched.Request()
		case paint.Event:
			sched.Begin()
			cancelPaint(true)
			st := paintState{frame: a.session.Frame(), size: a.session.Size()}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			a.session.HandleMouse(e)
		case key.Event:
			a.session.HandleKey(e)
			if a.session.Done() {
				cancelPaint(false)
				return
			}
		case error:
			log.Error().Err(e).Msg("window event")
		}
	}
}

// paintState is a frame together with the surface size it was taken at.
type paintState struct {
	frame *surface.Frame
	size  geom.Size
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, surf *surface.Surface, st paintState) {
	if st.size.Empty() {
		return
	}
	b, err := s.NewBuffer(image.Point{X: int(st.size.Width), Y: int(st.size.Height)})
	if err != nil {
		log.Error().Err(err).Msg("new buffer")
		return
	}
	defer b.Release()

	if !surf.Render(ctx, b.RGBA(), st.frame) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
