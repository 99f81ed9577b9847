package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"residentportal/internal/address"
	addresshandler "residentportal/internal/address/handler"
	"residentportal/internal/audit"
	jwttoken "residentportal/internal/jwt_token"
	"residentportal/internal/notification"
	"residentportal/internal/platform/config"
	"residentportal/internal/platform/httpserver"
	"residentportal/internal/platform/logger"
	platformmetrics "residentportal/internal/platform/metrics"
	"residentportal/internal/platform/middleware"
	platformredis "residentportal/internal/platform/redis"
	profilehandler "residentportal/internal/profile/handler"
	profilemetrics "residentportal/internal/profile/metrics"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/service"
	"residentportal/internal/profile/store"
	"residentportal/internal/profile/validation"
	"residentportal/internal/report"
	reporthandler "residentportal/internal/report/handler"
	reviewhandler "residentportal/internal/review/handler"
	review "residentportal/internal/review/service"
	"residentportal/pkg/platform/httputil"
)

const auditInboxSize = 256

// profileStore is what every module needs from profile persistence.
type profileStore interface {
	service.Store
	ListByStatus(ctx context.Context, statuses ...models.ProfileStatus) ([]models.ResidentRecord, error)
	CountByStatus(ctx context.Context) (map[models.ProfileStatus]int, error)
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	profiles, closeStore, err := openProfileStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	sender, closeSender, err := openSender(ctx, cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeSender)

	addressSource, closeCache, err := openAddressSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeCache)

	auditStore := audit.NewInMemoryStore()
	auditInbox := make(chan audit.Event, auditInboxSize)
	auditPublisher := audit.NewChannelPublisher(auditInbox)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)

	profileMetrics := profilemetrics.New()
	dispatcher := notification.NewDispatcher(sender,
		notification.WithLogger(log),
		notification.WithQueueSize(cfg.Intake.NotifyQueueSize),
		notification.WithSendHook(func(err error) {
			if err != nil {
				profileMetrics.IncrementNotification("failed")
				return
			}
			profileMetrics.IncrementNotification("sent")
		}),
	)

	vctx := validation.Context{ZonedBarangay: cfg.Intake.ZonedBarangay}
	orchestrator := service.NewOrchestrator(profiles, dispatcher, vctx,
		service.WithOrchestratorLogger(log),
		service.WithOrchestratorMetrics(profileMetrics),
		service.WithOrchestratorAudit(auditPublisher),
	)
	intake := service.New(profiles, orchestrator, vctx,
		service.WithLogger(log),
		service.WithMetrics(profileMetrics),
		service.WithAuditPublisher(auditPublisher),
	)
	syncer := service.NewSyncer(intake,
		service.WithPollInterval(cfg.Intake.PollInterval),
		service.WithSyncerLogger(log),
		service.WithSyncerMetrics(profileMetrics),
	)

	addresses := address.NewService(addressSource, address.WithLogger(log))
	reviews := review.New(profiles,
		review.WithLogger(log),
		review.WithAuditPublisher(auditPublisher),
		review.WithAuditReader(auditStore),
	)
	reports := report.New(profiles,
		report.WithLogger(log),
		report.WithAddressResolver(addresses),
	)

	if cfg.Auth.AdminTokenHash == "" {
		log.Warn("ADMIN_TOKEN_HASH not set; administrator routes will reject every request")
	}
	adminHash := []byte(cfg.Auth.AdminTokenHash)
	tokens := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience),
	)

	httpMetrics := platformmetrics.New()
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(log))
	r.Use(httpMetrics.Middleware)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	profilehandler.New(intake, log, tokens).Register(r)
	addresshandler.New(addresses, log).Register(r)
	reviewhandler.New(reviews, log, adminHash).Register(r)
	reporthandler.New(reports, log, adminHash).Register(r)

	srv := httpserver.New(cfg.Addr, r)
	log.Info("starting resident portal", "addr", cfg.Addr, "environment", cfg.Environment)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Serve(gctx, srv) })
	g.Go(func() error { return ignoreCanceled(dispatcher.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(syncer.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(auditWorker.Run(gctx)) })
	return g.Wait()
}

func openProfileStore(ctx context.Context, cfg config.Server, log *slog.Logger) (profileStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set; using in-memory profile store")
		return store.NewMemory(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg, func() { _ = db.Close() }, nil
}

func openSender(ctx context.Context, cfg config.Server, log *slog.Logger) (notification.Sender, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set; pending review notices are only logged")
		return notification.NewLogSender(log), func() {}, nil
	}
	client, err := notification.NewKafkaClient(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, err
	}
	if err := notification.EnsureTopic(ctx, client, cfg.Kafka.Topic, 1, 1); err != nil {
		client.Close()
		return nil, nil, err
	}
	return notification.NewKafkaSender(client, cfg.Kafka.Topic), client.Close, nil
}

func openAddressSource(ctx context.Context, cfg config.Server, log *slog.Logger) (address.Source, func(), error) {
	if cfg.AddressAPI.BaseURL == "" {
		log.Info("ADDRESS_API_URL not set; serving built-in address data")
		return address.DevSource(), func() {}, nil
	}
	var src address.Source = address.NewHTTPSource(cfg.AddressAPI.BaseURL, cfg.AddressAPI.Timeout)

	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return src, func() {}, nil
	}
	return address.NewRedisCache(client.Client, src, cfg.AddressAPI.CacheTTL, log), func() { _ = client.Close() }, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
