//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a notification through Notification Center.
func Notify(title, body string, opts Options) (uint32, error) {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, AppName)
	return 0, exec.Command("osascript", "-e", script).Run()
}
