package subsight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/harshpatel-22/subsight-backend/internal/cache"
	"github.com/harshpatel-22/subsight-backend/internal/config"
	"github.com/harshpatel-22/subsight-backend/internal/currency"
	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/lib/jwt"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/metrics"
	"github.com/harshpatel-22/subsight-backend/internal/migrations"
	"github.com/harshpatel-22/subsight-backend/internal/realtime"
	"github.com/harshpatel-22/subsight-backend/internal/scheduler"
	"github.com/harshpatel-22/subsight-backend/internal/services/analytics"
	"github.com/harshpatel-22/subsight-backend/internal/services/billing"
	"github.com/harshpatel-22/subsight-backend/internal/services/notification"
	"github.com/harshpatel-22/subsight-backend/internal/services/reminder"
	"github.com/harshpatel-22/subsight-backend/internal/services/subscription"
	"github.com/harshpatel-22/subsight-backend/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер, realtime-хаб и ежедневная рассылка.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	hub    *realtime.Hub
	mailer *Mailer
	daily  *scheduler.Daily
	sentry bool
}

// New поднимает зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.subsight.New"

	sentryEnabled, err := InitSentry(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var closers closeStack
	fail := func(err error) (*App, error) {
		closers.closeAll()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	loc, err := cfg.Reminder.Location()
	if err != nil {
		return fail(err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return fail(err)
	}
	closers.push(func() { _ = db.Close() })
	if cfg.MigrationsEnabled {
		if err = migrations.Run(db.DB); err != nil {
			return fail(err)
		}
	}

	redis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return fail(err)
	}
	closers.push(func() { _ = redis.Close() })

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	hub := realtime.NewHub(logger, m)

	mailer, err := NewMailer(cfg, logger)
	if err != nil {
		return fail(err)
	}
	closers.push(mailer.Close)

	engine, err := NewReminderEngine(cfg, logger, db, mailer, redis, m)
	if err != nil {
		return fail(err)
	}
	daily, err := scheduler.NewDaily(logger, cfg.RunAt, loc, cfg.RunOnStart, sweepJob(engine, hub))
	if err != nil {
		return fail(err)
	}

	converter := currency.NewClient(cfg.Currency, redis, logger)
	deps := Deps{
		Subscriptions: subscription.NewService(logger, db, converter, redis, loc),
		Analytics:     analytics.NewService(logger, db, redis, cfg.AnalyticsTTL, loc),
		Notifications: notification.NewService(logger, db),
		Billing:       billing.NewService(logger, db, cfg.WebhookSecret),
		Hub:           hub,
		Health:        db,
		Tokens:        jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Limiter:       middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst),
		Gatherer:      reg,
		Sentry:        sentryEnabled,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	// WriteTimeout не задаётся: он оборвал бы долгоживущие WebSocket-соединения.
	srv := &http.Server{
		Addr:        cfg.AddressHTTP,
		Handler:     router,
		ReadTimeout: cfg.TimeoutHTTP,
		IdleTimeout: cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  redis,
		hub:    hub,
		mailer: mailer,
		daily:  daily,
		sentry: sentryEnabled,
	}, nil
}

func sweepJob(engine *reminder.Engine, hub *realtime.Hub) scheduler.Job {
	return func(ctx context.Context) error {
		_, err := engine.RunSweep(ctx, hub)
		return err
	}
}

// InitSentry включает отправку ошибок, если задан DSN.
func InitSentry(cfg *config.Config) (bool, error) {
	if cfg.Sentry.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Env,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return false, fmt.Errorf("sentry.Init: %w", err)
	}
	return true, nil
}

// Run запускает сервер и планировщик и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	schedCtx, stopScheduler := context.WithCancel(ctx)
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		a.daily.Run(schedCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	stopScheduler()
	<-schedDone
	a.hub.Close()
	a.mailer.Close()
	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close redis", sl.Err(cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close database", sl.Err(cerr))
	}
	if a.sentry {
		sentry.Flush(2 * time.Second)
	}
	return err
}
