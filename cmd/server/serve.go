package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"cob-tracker/internal/config"
	"cob-tracker/internal/events"
	"cob-tracker/internal/handler"
	"cob-tracker/internal/health"
	"cob-tracker/internal/store"
	"cob-tracker/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default command)",
	Long: `Run the HTTP server.

The server starts listening immediately. The database connection is retried
in the background with exponential backoff; until it succeeds, and after the
retry budget is spent, data requests fail with a server error while the
pages and /healthz keep answering. Pending migrations are applied once the
database is reachable.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st handler.Store
	if cfg.Memory {
		log.Info("using in-memory store; entries are lost on exit")
		st = store.NewMemory()
	} else {
		pg := store.New(nil)
		defer pg.Close()
		go attachDatabase(ctx, cfg, pg, log)
		st = pg
	}

	broker := events.NewBroker()
	watcher := health.NewWatcher(st, cfg.HealthInterval, log)
	go watcher.Run(ctx)

	pages, err := web.New(st, cfg.APIBaseURL, log)
	if err != nil {
		return err
	}
	h := handler.New(st, cfg.JWTSecret, handler.Options{
		SetupToken:   cfg.SetupToken,
		ClientOrigin: cfg.ClientOrigin,
		Broker:       broker,
		Health:       watcher,
		Log:          log,
		AccessLog:    os.Stdout,
	})
	go h.SweepLimiter(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(pages.Mount),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var gs *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return err
		}
		gs = grpc.NewServer()
		healthpb.RegisterHealthServer(gs, watcher.Server())
		go func() {
			log.Info("grpc health listening", "addr", lis.Addr().String())
			if err := gs.Serve(lis); err != nil {
				log.Error("grpc", "err", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	log.Info("shutting down")
	// event streams never end on their own
	broker.Close()
	if gs != nil {
		gs.GracefulStop()
	}
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func attachDatabase(ctx context.Context, cfg *config.Config, pg *store.Store, log *slog.Logger) {
	pool, err := store.Connect(ctx, cfg.DatabaseURL, retryPolicy(cfg), log)
	if err != nil {
		log.Error("database unreachable; serving without it", "err", err)
		return
	}
	if err := store.Migrate(ctx, pool); err != nil {
		log.Error("migrations failed", "err", err)
	}
	pg.Attach(pool)
}
