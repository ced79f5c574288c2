// Package platform delivers desktop notifications through the host's
// notification service.
package platform

// AppName identifies the application to notification services.
const AppName = "boxlabel"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image shown with the notification
	// where the platform supports it.
	IconPath string
	// Timeout in milliseconds; zero selects the platform default.
	Timeout int32
}

func (o Options) timeout() int32 {
	if o.Timeout <= 0 {
		return 5000
	}
	return o.Timeout
}
