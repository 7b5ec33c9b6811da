package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"lawdesk/internal/api"
	"lawdesk/internal/apiclient"
	"lawdesk/internal/cache"
	"lawdesk/internal/config"
	"lawdesk/internal/database"
	"lawdesk/internal/database/migration"
	"lawdesk/internal/http/handler"
	"lawdesk/internal/http/middleware"
	"lawdesk/internal/model"
	"lawdesk/internal/notify"
	"lawdesk/internal/otel"
	"lawdesk/internal/repository/sqldb"
	"lawdesk/internal/service"
	"lawdesk/internal/session"
	"lawdesk/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("lawdesk_exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	// Persisted client state (sqlite file by default, postgres when configured)
	db, dialect, err := database.Open(ctx, cfg.Persist)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migration.EnsureMigrated(ctx, db, dialect, log); err != nil {
		return err
	}

	sess := session.NewManager(sqldb.NewStateSQL(db), log)
	go func() {
		if err := sess.Rehydrate(ctx); err != nil {
			log.Error("session_rehydrate_failed", "error", err)
		}
	}()

	// Object storage is optional; without it template documents are inlined as data URLs
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
	}

	client, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithRateLimit(cfg.API.RateLimit),
	)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cacheMetrics, err := cache.NewMetrics(reg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	store := cache.New(
		cache.WithKeepUnusedFor(cfg.Cache.KeepUnusedFor),
		cache.WithLogger(log),
		cache.WithMetrics(cacheMetrics),
	)
	defer store.Close()
	slices := api.New(client, store)

	center := notify.NewCenter(cfg.Notify.TTL)
	defer center.Stop()

	prober := apiclient.NewProber(client, cfg.API.ProbePath, cfg.API.ProbeInterval, store.Reconnected)
	go prober.Run(ctx)

	deps := handler.Deps{
		DB:      db,
		Backend: prober,
		Metrics: reg,
		Session: sess,
		Cases:   service.NewCaseService(slices.Cases, sess, center),
		Tickets: service.NewTicketService(slices.Tickets, sess, center),
		Appointments: service.NewAppointmentService(
			slices.Appointments, slices.Users, slices.Lawyers, sess, center, time.Local,
		),
		Documents: service.NewDocumentService(service.DocumentDeps{
			CaseDocuments: slices.CaseDocuments,
			Documents:     slices.Documents,
			Logs:          slices.Logs,
			Store:         objStore,
			URLExpiry:     cfg.MinIO.URLExpiry,
			Notifier:      center,
			Logger:        log,
		}),
		Notifications: center,
	}

	if cfg.API.PollInterval > 0 {
		go func() {
			err := slices.Appointments.Poll(ctx, cfg.API.PollInterval, func(_ []model.Appointment, err error) {
				if err != nil {
					log.Warn("appointment_poll_failed", "error", err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("appointment_poll_stopped", "error", err)
			}
		}()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler(),
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(httpMetrics.Handler())

	handler.RegisterRoutes(app, deps)

	// Nothing is served before the persisted session is back
	if err := sess.Wait(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()
	log.Info("lawdesk_started", "port", cfg.Port, "api_base_url", client.BaseURL(), "persist_driver", string(dialect))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("lawdesk_stopping")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// newLogger writes JSON lines with the timestamp under "ts".
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}))
}
