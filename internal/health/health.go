// Package health tracks store reachability after startup and reports it over
// the gRPC health protocol and /healthz.
package health

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name reported next to the overall ("") status.
const Service = "cob.v1.CobService"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Watcher struct {
	db       Pinger
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
	srv      *health.Server
	up       atomic.Bool
	checked  atomic.Bool
}

func NewWatcher(db Pinger, interval time.Duration, log *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		db:       db,
		interval: interval,
		timeout:  5 * time.Second,
		log:      log,
		srv:      health.NewServer(),
	}
}

// Server is the gRPC health service to register on a grpc.Server.
func (w *Watcher) Server() *health.Server { return w.srv }

func (w *Watcher) Up() bool { return w.up.Load() }

// Run checks once immediately, then every interval until ctx ends. On return
// the gRPC statuses flip to NOT_SERVING.
func (w *Watcher) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	defer w.srv.Shutdown()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Check(ctx)
		}
	}
}

// Check pings the store once and records any transition.
func (w *Watcher) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.db.Ping(pctx)
	cancel()

	up := err == nil
	was := w.up.Swap(up)
	first := !w.checked.Swap(true)

	switch {
	case first && !up:
		w.log.Warn("database unavailable", "err", err)
	case !first && was && !up:
		w.log.Error("database disconnected", "err", err)
	case !first && !was && up:
		w.log.Info("database reconnected")
	}

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if up {
		status = healthpb.HealthCheckResponse_SERVING
	}
	w.srv.SetServingStatus("", status)
	w.srv.SetServingStatus(Service, status)
	return up
}
