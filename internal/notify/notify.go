// Package notify delivers alerts as toasts, platform notifications and
// sounds. Each channel is isolated: a failing or panicking channel never
// prevents the others from running.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nhle/smartcal/internal/model"
)

// Variant styles a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient in-app message.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// ToastSink shows toasts.
type ToastSink interface {
	Toast(t Toast)
}

// ToastFunc adapts a function to ToastSink.
type ToastFunc func(Toast)

func (f ToastFunc) Toast(t Toast) { f(t) }

// Permission is the platform notification permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier raises platform notifications.
type Notifier interface {
	Permission() Permission
	Notify(ctx context.Context, title, body, icon string) error
}

// PermissionRequester is implemented by notifiers that can ask the user
// for permission.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (Permission, error)
}

// Player plays an alarm sound.
type Player interface {
	Play(ctx context.Context, url string) error
}

// Dispatcher fans an alert out to the configured channels.
type Dispatcher struct {
	logger   *slog.Logger
	notifier Notifier
	player   Player
	icon     string
	soundURL string

	mu    sync.RWMutex
	sinks []ToastSink

	// sounds tracks in-flight playback so tests and shutdown can wait.
	sounds sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithNotifier sets the platform notifier.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

// WithPlayer sets the sound player and the sound to play.
func WithPlayer(p Player, soundURL string) Option {
	return func(d *Dispatcher) {
		d.player = p
		d.soundURL = soundURL
	}
}

// WithIcon sets the icon passed to platform notifications.
func WithIcon(icon string) Option {
	return func(d *Dispatcher) { d.icon = icon }
}

// WithSinks registers toast sinks.
func WithSinks(sinks ...ToastSink) Option {
	return func(d *Dispatcher) { d.sinks = append(d.sinks, sinks...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddSink registers another toast sink.
func (d *Dispatcher) AddSink(s ToastSink) {
	d.mu.Lock()
	d.sinks = append(d.sinks, s)
	d.mu.Unlock()
}

// Dispatch raises the alert on every channel it asks for. It returns once
// the toast and platform notification are done; sound plays in the
// background.
func (d *Dispatcher) Dispatch(ctx context.Context, a model.Alert) {
	d.toast(Toast{Title: a.Title, Description: a.Body, Variant: VariantDefault})

	if a.NotificationEnabled && d.notifier != nil {
		d.isolate("notification", func() {
			if p := d.notifier.Permission(); p != PermissionGranted {
				d.logger.Debug("platform notification skipped", "permission", p)
				return
			}
			if err := d.notifier.Notify(ctx, a.Title, a.Body, d.icon); err != nil {
				d.logger.Warn("platform notification failed", "error", err)
			}
		})
	}

	if a.SoundEnabled && d.player != nil {
		d.sounds.Add(1)
		go func() {
			defer d.sounds.Done()
			d.isolate("sound", func() {
				if err := d.player.Play(context.WithoutCancel(ctx), d.soundURL); err != nil {
					d.logger.Error("playing alarm sound", "error", err)
				}
			})
		}()
	}
}

// WaitSounds blocks until in-flight sound playback finishes.
func (d *Dispatcher) WaitSounds() {
	d.sounds.Wait()
}

// Announce implements store.Announcer with a default-variant toast.
func (d *Dispatcher) Announce(title, description string) {
	d.toast(Toast{Title: title, Description: description, Variant: VariantDefault})
}

// Warn shows a destructive toast.
func (d *Dispatcher) Warn(title, description string) {
	d.toast(Toast{Title: title, Description: description, Variant: VariantDestructive})
}

// RequestPermission asks the notifier for permission and reports the
// outcome as a toast.
func (d *Dispatcher) RequestPermission(ctx context.Context) Permission {
	req, ok := d.notifier.(PermissionRequester)
	if d.notifier == nil || !ok {
		d.Warn("Notifications not supported", "This system does not support notifications")
		return PermissionDenied
	}

	p, err := req.RequestPermission(ctx)
	switch {
	case err != nil:
		d.logger.Error("requesting notification permission", "error", err)
		d.Warn("Error enabling notifications", "There was a problem enabling notifications")
	case p == PermissionGranted:
		d.Announce("Notifications enabled", "You will receive notifications for your reminders")
	default:
		d.Warn("Notification permission denied", "Please enable notifications in your system settings")
	}
	return p
}

func (d *Dispatcher) toast(t Toast) {
	d.mu.RLock()
	sinks := append([]ToastSink(nil), d.sinks...)
	d.mu.RUnlock()

	for i, s := range sinks {
		d.isolate(fmt.Sprintf("toast sink %d", i), func() { s.Toast(t) })
	}
}

// isolate runs fn and turns a panic into a log line.
func (d *Dispatcher) isolate(channel string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification channel panicked", "channel", channel, "panic", r)
		}
	}()
	fn()
}
