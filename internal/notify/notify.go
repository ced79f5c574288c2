package notify

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/example/boxlabel/internal/imagesrc"
	"github.com/example/boxlabel/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSubmit fires when an annotation record is written to disk.
	EventSubmit Event = "submit"
	// EventCopy fires when a record or image is copied to the clipboard.
	EventCopy Event = "copy"
)

const previewSize = 128

// Sender delivers a notification. platform.Notify is the default.
type Sender func(title, body string, opts platform.Options) (uint32, error)

// Preferences describes notification text.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "boxlabel",
		Templates: map[Event]string{
			EventSubmit: "Saved %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies BOXLABEL_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("BOXLABEL_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range map[Event]string{
		EventSubmit: "BOXLABEL_NOTIFY_SUBMIT_TEXT",
		EventCopy:   "BOXLABEL_NOTIFY_COPY_TEXT",
	} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

// Notifier sends desktop notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform sender.
func WithSender(s Sender) Option {
	return func(n *Notifier) { n.send = s }
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	n := &Notifier{
		prefs:   Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))},
		enabled: make(map[Event]bool),
		send:    platform.Notify,
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enable toggles the notifier for event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Submitted reports a written record. When preview is non-nil a thumbnail
// is attached as the notification icon.
func (n *Notifier) Submitted(path string, boxes int, preview image.Image) {
	if !n.enabledFor(EventSubmit) {
		return
	}
	detail := path
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	detail = fmt.Sprintf("%d boxes to %s", boxes, detail)

	opts := platform.Options{}
	if preview != nil {
		icon, cleanup, err := writePreview(preview)
		if err != nil {
			log.Warn().Err(err).Msg("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = icon
		}
	}
	n.dispatch(EventSubmit, detail, opts)
}

// Copied reports a clipboard write.
func (n *Notifier) Copied(what string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(what) == "" {
		what = "annotations"
	}
	n.dispatch(EventCopy, what, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if _, err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Warn().Err(err).Str("event", string(event)).Msg("notification failed")
	}
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "boxlabel-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := imagesrc.Save(imagesrc.Thumbnail(img, previewSize), path); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", path).Msg("remove preview")
		}
	}
	return path, cleanup, nil
}
