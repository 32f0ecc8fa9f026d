package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"cob-tracker/internal/events"
	"cob-tracker/internal/health"
	"cob-tracker/internal/logging"
	"cob-tracker/internal/middleware"
	"cob-tracker/internal/model"
)

// Store is what the REST surface needs from persistence. Both the Postgres
// store and the in-memory store satisfy it.
type Store interface {
	Ping(ctx context.Context) error
	ListCobs(ctx context.Context) ([]model.Cob, error)
	CreateCob(ctx context.Context, in model.CobInput) (*model.Cob, error)
	UpdateCob(ctx context.Context, id string, in model.CobInput) (*model.Cob, error)
	DeleteCob(ctx context.Context, id string) error
	CreateAdmin(ctx context.Context, a *model.Admin) error
	AdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type Options struct {
	SetupToken   string
	ClientOrigin string
	Broker       *events.Broker
	Health       *health.Watcher
	Log          *slog.Logger
	// AccessLog receives combined-format request lines; nil disables them.
	AccessLog io.Writer
	// LoginRate and LoginBurst bound /api/auth/* per client IP.
	LoginRate  float64
	LoginBurst int
}

type Handler struct {
	store   Store
	secret  string
	opts    Options
	broker  *events.Broker
	log     *slog.Logger
	limiter *middleware.RateLimiter
}

func New(st Store, secret string, opts Options) *Handler {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Broker == nil {
		opts.Broker = events.NewBroker()
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = 1
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 10
	}
	return &Handler{
		store:   st,
		secret:  secret,
		opts:    opts,
		broker:  opts.Broker,
		log:     opts.Log,
		limiter: middleware.NewRateLimiter(opts.LoginRate, opts.LoginBurst),
	}
}

// SweepLimiter evicts idle rate-limit buckets until ctx ends.
func (h *Handler) SweepLimiter(ctx context.Context) { h.limiter.Sweep(ctx) }

func (h *Handler) protect(next http.HandlerFunc) http.Handler {
	return middleware.Auth(func() string { return h.secret }, writeError)(next)
}

// Routes builds the full HTTP surface. Extra mounts (the HTML pages) are
// attached to the root router after the API.
func (h *Handler) Routes(mounts ...func(*mux.Router)) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	api := r.PathPrefix("/api").Subrouter()

	authR := api.PathPrefix("/auth").Subrouter()
	authR.Use(middleware.RateLimit(h.limiter, writeError))
	authR.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	authR.HandleFunc("/seed-admin", h.SeedAdmin).Methods(http.MethodPost)

	api.HandleFunc("/cobs", h.ListCobs).Methods(http.MethodGet)
	api.Handle("/cobs", h.protect(h.CreateCob)).Methods(http.MethodPost)
	api.Handle("/cobs/export", h.protect(h.ExportCobs)).Methods(http.MethodGet)
	api.Handle("/cobs/{id}", h.protect(h.UpdateCob)).Methods(http.MethodPut)
	api.Handle("/cobs/{id}", h.protect(h.DeleteCob)).Methods(http.MethodDelete)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	api.HandleFunc("/events", h.Events).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)

	for _, m := range mounts {
		m(r)
	}

	origin := h.opts.ClientOrigin
	if origin == "" {
		origin = "*"
	}
	var out http.Handler = handlers.CORS(
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Setup-Token"}),
	)(r)
	out = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLog{h.log}),
		handlers.PrintRecoveryStack(false),
	)(out)
	if h.opts.AccessLog != nil {
		out = handlers.LoggingHandler(h.opts.AccessLog, out)
	}
	return out
}

type recoveryLog struct{ log *slog.Logger }

func (l recoveryLog) Println(v ...interface{}) {
	l.log.Error("panic serving request", "panic", v)
}
