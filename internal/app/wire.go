package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nhle/smartcal/internal/calendar"
	"github.com/nhle/smartcal/internal/credential"
	"github.com/nhle/smartcal/internal/kv"
	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/notify"
	"github.com/nhle/smartcal/internal/scanner"
	"github.com/nhle/smartcal/internal/store"
	"github.com/nhle/smartcal/internal/web"
)

// App holds the wired components of a running calendar.
type App struct {
	Config     *model.AppConfig
	Logger     *slog.Logger
	KV         kv.Store
	Store      *store.Store
	Dispatcher *notify.Dispatcher
	Notifier   notify.Notifier
	Scanner    *scanner.Scanner
	Hub        *notify.Hub

	loc *time.Location
	now func() time.Time
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger   *slog.Logger
	toastOut io.Writer
	hub      bool
	loc      *time.Location
	now      func() time.Time
	backend  kv.Store
	notifier notify.Notifier
	player   notify.Player
	sinks    []notify.ToastSink
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

// WithTerminalToasts prints toasts to w.
func WithTerminalToasts(w io.Writer) Option {
	return func(o *buildOptions) { o.toastOut = w }
}

// WithHub creates a websocket hub and registers it as a toast sink.
func WithHub() Option {
	return func(o *buildOptions) { o.hub = true }
}

// WithLocation sets the zone of "today".
func WithLocation(loc *time.Location) Option {
	return func(o *buildOptions) { o.loc = loc }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(o *buildOptions) { o.now = now }
}

// WithBackend uses backend instead of opening the configured one.
func WithBackend(backend kv.Store) Option {
	return func(o *buildOptions) { o.backend = backend }
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(o *buildOptions) { o.notifier = n }
}

// WithPlayer replaces the configured sound player.
func WithPlayer(p notify.Player) Option {
	return func(o *buildOptions) { o.player = p }
}

// WithToastSink registers an extra toast sink.
func WithToastSink(s notify.ToastSink) Option {
	return func(o *buildOptions) { o.sinks = append(o.sinks, s) }
}

// Build opens storage, loads the store and wires the dispatcher and the
// scanner from cfg.
func Build(ctx context.Context, cfg *model.AppConfig, opts ...Option) (*App, error) {
	o := buildOptions{logger: slog.Default(), loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = kv.Open(cfg.Storage.Backend, cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
		}
	}

	a := &App{
		Config: cfg,
		Logger: o.logger,
		KV:     backend,
		loc:    o.loc,
		now:    o.now,
	}

	a.Notifier = o.notifier
	if a.Notifier == nil {
		a.Notifier = notify.NewDesktopNotifier(cfg.Notifications.Platform)
	}

	player := o.player
	if player == nil {
		player = a.configuredPlayer()
	}

	sinks := append([]notify.ToastSink(nil), o.sinks...)
	if o.toastOut != nil {
		sinks = append(sinks, notify.NewTerminalSink(o.toastOut))
	}
	if o.hub {
		a.Hub = notify.NewHub(o.logger)
		sinks = append(sinks, a.Hub)
	}

	a.Dispatcher = notify.NewDispatcher(
		notify.WithLogger(o.logger),
		notify.WithNotifier(a.Notifier),
		notify.WithPlayer(player, cfg.Notifications.SoundURL),
		notify.WithIcon(cfg.Notifications.Icon),
		notify.WithSinks(sinks...),
	)

	a.Store = store.New(backend,
		store.WithLogger(o.logger),
		store.WithClock(o.now),
		store.WithAnnouncer(a.Dispatcher),
	)
	snap := a.Store.Load(ctx)
	o.logger.Debug("calendar loaded",
		"backend", cfg.Storage.Backend,
		"notes", len(snap.Notes),
		"featured", len(snap.FeaturedIDs),
		"reminders", len(snap.Reminders),
	)

	sc, err := scanner.New(a.Store, a.Dispatcher,
		scanner.WithSchedule(cfg.ScanSchedule()),
		scanner.WithClock(o.now),
		scanner.WithLocation(o.loc),
		scanner.WithLogger(o.logger),
	)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	a.Scanner = sc

	return a, nil
}

func (a *App) configuredPlayer() notify.Player {
	cmd := a.Config.Notifications.Player
	if cmd == "" || a.Config.Notifications.SoundURL == "" {
		return notify.NewBellPlayer(os.Stderr)
	}
	p, err := notify.NewCommandPlayer(cmd)
	if err != nil {
		a.Logger.Warn("invalid sound player, using bell", "player", cmd, "error", err)
		return notify.NewBellPlayer(os.Stderr)
	}
	return p
}

// Location is the zone used for "today".
func (a *App) Location() *time.Location { return a.loc }

// Now returns the current time in Location.
func (a *App) Now() time.Time { return a.now().In(a.loc) }

// Today returns the current date as YYYY-MM-DD.
func (a *App) Today() string { return model.FormatDate(a.Now()) }

// WeekStart returns the configured first day of the week.
func (a *App) WeekStart() time.Weekday {
	d, err := calendar.ParseWeekStart(a.Config.Display.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return d
}

// PreparePermission asks the platform for notification permission without
// showing a toast. Failures leave the permission at its current state.
func (a *App) PreparePermission(ctx context.Context) {
	if !a.Config.Notifications.Platform {
		return
	}
	req, ok := a.Notifier.(notify.PermissionRequester)
	if !ok {
		return
	}
	p, err := req.RequestPermission(ctx)
	if err != nil {
		a.Logger.Warn("requesting notification permission", "error", err)
		return
	}
	a.Logger.Debug("notification permission", "state", p)
}

// Run starts the scanner, the hub and, for file storage, the change
// watcher. It blocks until ctx is done and then shuts everything down.
func (a *App) Run(ctx context.Context, onReload func(store.Snapshot)) error {
	a.PreparePermission(ctx)

	if a.Hub != nil {
		go a.Hub.Run(ctx)
	}

	switch backend := a.KV.(type) {
	case kv.Watchable:
		go func() {
			if err := a.Store.Watch(ctx, backend, store.DefaultWatchDebounce, onReload); err != nil {
				a.Logger.Warn("watching data directory", "dir", backend.WatchDir(), "error", err)
			}
		}()
	case *kv.MemoryStore:
	default:
		go a.pollReload(ctx, onReload)
	}

	if err := a.Scanner.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	a.Scanner.Stop()
	a.Dispatcher.WaitSounds()
	return nil
}

// pollReload re-reads backends that cannot be watched, twice per scan
// interval, so changes made by other processes reach the scanner.
func (a *App) pollReload(ctx context.Context, onReload func(store.Snapshot)) {
	every := time.Duration(a.Config.Scanner.IntervalSec) * time.Second / 2
	if every < time.Second {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := a.Store.Reload(ctx)
			if onReload != nil {
				onReload(snap)
			}
		}
	}
}

// BasicAuth resolves the API credentials. The password comes from the
// keyring; a configured username without a stored password is an error.
func (a *App) BasicAuth() (web.BasicAuth, error) {
	cfg := a.Config.Server.BasicAuth
	if cfg.Username == "" {
		return web.BasicAuth{}, nil
	}
	password, err := credential.Get(cfg.PasswordKey)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return web.BasicAuth{}, fmt.Errorf("basic auth enabled for %q but no password stored under %q; run 'smartcal config set-password'", cfg.Username, cfg.PasswordKey)
		}
		return web.BasicAuth{}, err
	}
	return web.BasicAuth{Username: cfg.Username, Password: password}, nil
}

// Serve runs the app together with the HTTP API until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	auth, err := a.BasicAuth()
	if err != nil {
		return err
	}

	opts := []web.Option{
		web.WithLogger(a.Logger),
		web.WithBasicAuth(auth),
		web.WithClock(a.now),
		web.WithLocation(a.loc),
		web.WithWeekStart(a.WeekStart()),
	}
	if a.Hub != nil {
		opts = append(opts, web.WithHub(a.Hub))
	}
	srv := web.NewServer(a.Store, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- a.Run(ctx, nil) }()

	err = srv.ListenAndServe(ctx, a.Config.Server.Listen)
	cancel()
	if rerr := <-runErr; err == nil {
		err = rerr
	}
	return err
}

// Close releases the storage backend.
func (a *App) Close() error {
	a.Scanner.Stop()
	return a.KV.Close()
}
