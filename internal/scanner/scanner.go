// Package scanner fires reminder alerts. A cron schedule drives periodic
// scans that compare the wall clock against the store's reminders and notes.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/store"
)

// DefaultSchedule scans twice a minute.
const DefaultSchedule = "@every 30s"

// Source is the view of the store the scanner needs.
type Source interface {
	Snapshot() store.Snapshot
	MarkReminderNotified(ctx context.Context, id string) (bool, error)
	MarkNoteNotified(ctx context.Context, id string) (bool, error)
}

// Dispatcher delivers an alert on the configured channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, a model.Alert)
}

// Status describes the scanner for status displays.
type Status struct {
	Running    bool
	Schedule   string
	LastScan   time.Time
	LastFired  int
	TotalFired int
}

// ScanResultMsg is a tea.Msg sent after a scan that fired alerts.
type ScanResultMsg struct {
	Alerts []model.Alert
	At     time.Time
}

// Scanner runs reminder scans on a cron schedule.
type Scanner struct {
	source     Source
	dispatcher Dispatcher
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
	schedule   string

	scanMu sync.Mutex

	mu       sync.Mutex
	cron     *cron.Cron
	stopCh   chan struct{}
	running  bool
	status   Status
	resultCh chan ScanResultMsg
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithLocation sets the zone defining "today" and the current minute.
func WithLocation(loc *time.Location) Option {
	return func(s *Scanner) { s.loc = loc }
}

// WithSchedule sets the cron spec. It must fire at least once a minute.
func WithSchedule(spec string) Option {
	return func(s *Scanner) { s.schedule = spec }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New creates a Scanner reading from src and alerting through d.
func New(src Source, d Dispatcher, opts ...Option) (*Scanner, error) {
	s := &Scanner{
		source:     src,
		dispatcher: d,
		logger:     slog.Default(),
		now:        time.Now,
		loc:        time.Local,
		schedule:   DefaultSchedule,
		resultCh:   make(chan ScanResultMsg, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return nil, err
	}
	s.status.Schedule = s.schedule
	return s, nil
}

// ValidateSchedule rejects specs that cannot be parsed or that leave a gap
// longer than a minute between scans, since minute matching would then
// miss reminders.
func ValidateSchedule(spec string) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parsing scan schedule %q: %w", spec, err)
	}
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		next := sched.Next(t)
		if next.IsZero() || next.Sub(t) > time.Minute {
			return fmt.Errorf("scan schedule %q: scans must be at most %ds apart", spec, model.MaxScanIntervalSec)
		}
		t = next
	}
	return nil
}

// Start runs one scan immediately and then schedules periodic scans until
// Stop is called or ctx is done.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}

	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithChain(cron.Recover(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(s.schedule, func() { s.ScanOnce(ctx) }); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("scheduling scans: %w", err)
	}
	s.cron = c
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	s.running = true
	s.status.Running = true
	s.mu.Unlock()

	s.ScanOnce(ctx)
	c.Start()
	s.logger.Info("reminder scanner started", "schedule", s.schedule)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stopCh:
		}
	}()
	return nil
}

// Stop halts scheduling and waits for an in-flight scan to finish.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	c := s.cron
	close(s.stopCh)
	s.running = false
	s.status.Running = false
	s.mu.Unlock()

	<-c.Stop().Done()
	s.logger.Info("reminder scanner stopped")
}

// Status returns the current scanner status.
func (s *Scanner) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ScanOnce evaluates every reminder and note against the current minute
// and dispatches the alerts it claims. Scans never overlap.
func (s *Scanner) ScanOnce(ctx context.Context) []model.Alert {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	now := s.now().In(s.loc)
	today := now.Format(model.DateLayout)
	hour, minute := now.Hour(), now.Minute()
	snap := s.source.Snapshot()

	var fired []model.Alert

	for _, r := range snap.Reminders {
		if r.Date != today || r.Notified {
			continue
		}
		h, m, err := model.ParseClock(r.Time)
		if err != nil {
			s.logger.Debug("skipping reminder with bad time", "reminder_id", r.ID, "error", err)
			continue
		}
		if h != hour || m != minute {
			continue
		}
		if !s.claim(ctx, "reminder", r.ID, s.source.MarkReminderNotified) {
			continue
		}
		a := model.Alert{
			Title:               "Reminder",
			Body:                r.Title,
			NotificationEnabled: r.NotificationEnabled,
			SoundEnabled:        r.SoundEnabled,
			Source:              model.AlertFromReminder,
			RefID:               r.ID,
			FiredAt:             now,
		}
		s.dispatcher.Dispatch(ctx, a)
		fired = append(fired, a)
	}

	// Note-level alerts fire on the note's date without a minute match.
	for _, n := range snap.Notes {
		if !n.ReminderEnabled || n.Date != today || n.ReminderNotified {
			continue
		}
		if !s.claim(ctx, "note", n.ID, s.source.MarkNoteNotified) {
			continue
		}
		a := model.Alert{
			Title:               "Note Reminder",
			Body:                n.Title,
			NotificationEnabled: true,
			SoundEnabled:        true,
			Source:              model.AlertFromNote,
			RefID:               n.ID,
			FiredAt:             now,
		}
		s.dispatcher.Dispatch(ctx, a)
		fired = append(fired, a)
	}

	s.mu.Lock()
	s.status.LastScan = now
	s.status.LastFired = len(fired)
	s.status.TotalFired += len(fired)
	s.mu.Unlock()

	if len(fired) > 0 {
		s.logger.Info("reminders fired", "count", len(fired))
		s.sendResult(ScanResultMsg{Alerts: fired, At: now})
	}
	return fired
}

// claim marks an entity notified. A failed write still counts as claimed
// because the in-memory flag is already set.
func (s *Scanner) claim(ctx context.Context, kind, id string, mark func(context.Context, string) (bool, error)) bool {
	claimed, err := mark(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false
		}
		s.logger.Error("persisting notified flag", "kind", kind, "id", id, "error", err)
	}
	return claimed
}

// sendResult sends a ScanResultMsg without blocking.
func (s *Scanner) sendResult(msg ScanResultMsg) {
	select {
	case s.resultCh <- msg:
	default:
	}
}

// WaitForResult returns a tea.Cmd that waits for the next scan that fired
// alerts. Call it again after each ScanResultMsg to keep listening.
func (s *Scanner) WaitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-s.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
