package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
)

// DesktopNotifier raises notifications through notify-send on Linux and
// osascript on macOS.
type DesktopNotifier struct {
	enabled  bool
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error

	mu         sync.Mutex
	permission Permission
}

// NewDesktopNotifier returns a notifier. When enabled is false the
// permission is denied and Notify is never attempted.
func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{
		enabled:    enabled,
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
		run:        runCommand,
		permission: PermissionDefault,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("running %s: %w: %s", name, err, out)
	}
	return nil
}

func (d *DesktopNotifier) helper() string {
	switch d.goos {
	case "darwin":
		return "osascript"
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send"
	default:
		return ""
	}
}

// Permission implements Notifier. It stays default until
// RequestPermission resolves it.
func (d *DesktopNotifier) Permission() Permission {
	if !d.enabled {
		return PermissionDenied
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// RequestPermission grants permission when the platform helper exists.
func (d *DesktopNotifier) RequestPermission(_ context.Context) (Permission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.enabled {
		d.permission = PermissionDenied
		return d.permission, nil
	}
	name := d.helper()
	if name == "" {
		d.permission = PermissionDenied
		return d.permission, nil
	}
	if _, err := d.lookPath(name); err != nil {
		d.permission = PermissionDenied
		return d.permission, nil
	}
	d.permission = PermissionGranted
	return d.permission, nil
}

// Notify implements Notifier.
func (d *DesktopNotifier) Notify(ctx context.Context, title, body, icon string) error {
	switch d.helper() {
	case "osascript":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
		return d.run(ctx, "osascript", "-e", script)
	case "notify-send":
		args := []string{"--app-name=smartcal"}
		if icon != "" {
			args = append(args, "--icon="+icon)
		}
		args = append(args, title, body)
		return d.run(ctx, "notify-send", args...)
	default:
		return fmt.Errorf("desktop notifications unsupported on %s", d.goos)
	}
}
