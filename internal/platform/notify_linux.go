//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall  = notifyDest + ".Notify"
	urgencyHint = "urgency"
)

// Notify sends a desktop notification over the session bus and returns the
// id assigned by the notification server.
func Notify(title, body string, opts Options) (uint32, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{urgencyHint: dbus.MakeVariant(byte(1))}
	var id uint32
	err = conn.Object(notifyDest, notifyPath).
		Call(notifyCall, 0, AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, opts.timeout()).
		Store(&id)
	return id, err
}
