// Package web serves the calendar over a JSON HTTP API with a websocket
// feed of toasts and change events.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/nhle/smartcal/internal/notify"
	"github.com/nhle/smartcal/internal/store"
)

// BasicAuth holds the credentials required by the API. An empty Username
// disables authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Server wires HTTP handlers to the store.
type Server struct {
	store     *store.Store
	hub       *notify.Hub
	validate  *validator.Validate
	logger    *slog.Logger
	auth      BasicAuth
	loc       *time.Location
	now       func() time.Time
	weekStart time.Weekday
	router    *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHub attaches the websocket hub served on /ws and notified after
// every mutation.
func WithHub(h *notify.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithBasicAuth protects every route except /health.
func WithBasicAuth(a BasicAuth) Option {
	return func(s *Server) { s.auth = a }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLocation sets the zone dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// WithWeekStart sets the first column of month grids.
func WithWeekStart(d time.Weekday) Option {
	return func(s *Server) { s.weekStart = d }
}

// NewServer constructs a Server and registers its routes.
func NewServer(st *store.Store, opts ...Option) *Server {
	s := &Server{
		store:    st,
		validate: newValidator(),
		logger:   slog.Default(),
		loc:      time.Local,
		now:      time.Now,
		router:   mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.auth.Username != "" {
		h = s.basicAuthMiddleware(h)
	}
	return s.loggerMiddleware(h)
}

func (s *Server) registerRoutes() {
	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.hub != nil {
		r.Handle("/ws", s.hub)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/notes", s.listNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.createNote).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", s.getNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", s.updateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", s.deleteNote).Methods(http.MethodDelete)
	api.HandleFunc("/notes/{id}/featured", s.toggleFeatured).Methods(http.MethodPost)
	api.HandleFunc("/featured", s.listFeatured).Methods(http.MethodGet)

	api.HandleFunc("/reminders", s.listReminders).Methods(http.MethodGet)
	api.HandleFunc("/reminders", s.createReminder).Methods(http.MethodPost)
	api.HandleFunc("/reminders/{id}", s.getReminder).Methods(http.MethodGet)
	api.HandleFunc("/reminders/{id}", s.updateReminder).Methods(http.MethodPut)
	api.HandleFunc("/reminders/{id}", s.deleteReminder).Methods(http.MethodDelete)

	api.HandleFunc("/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.getMonth).Methods(http.MethodGet)
	api.HandleFunc("/days/{date}", s.getDay).Methods(http.MethodGet)

	api.HandleFunc("/calc/add", s.calcAdd).Methods(http.MethodGet)
	api.HandleFunc("/calc/between", s.calcBetween).Methods(http.MethodGet)
	api.HandleFunc("/calc/age", s.calcAge).Methods(http.MethodGet)

	api.HandleFunc("/export.ics", s.exportICS).Methods(http.MethodGet)
	api.HandleFunc("/import.ics", s.importICS).Methods(http.MethodPost)
	api.HandleFunc("/snapshot", s.getSnapshot).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// changed tells websocket clients to refetch.
func (s *Server) changed(kind, id string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(notify.TypeChanged, map[string]string{"kind": kind, "id": id})
}

func (s *Server) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "listen", addr, "auth", s.auth.Username != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
