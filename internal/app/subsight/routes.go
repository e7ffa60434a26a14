// Package subsight собирает HTTP API, realtime-канал и ежедневную рассылку в одно приложение.
package subsight

import (
	"log/slog"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/analytics/category"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/analytics/monthly"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/analytics/top"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/analytics/yearly"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/billing/webhook"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/health"
	notificationlist "github.com/harshpatel-22/subsight-backend/internal/http/handlers/notification/list"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/notification/markall"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/notification/markread"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/realtime/socket"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/subscription/create"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/subscription/list"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/subscription/read"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/subscription/remove"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/subscription/renew"
	"github.com/harshpatel-22/subsight-backend/internal/http/handlers/subscription/update"
	"github.com/harshpatel-22/subsight-backend/internal/http/middlewarectx"
	"github.com/harshpatel-22/subsight-backend/internal/realtime"
	"github.com/harshpatel-22/subsight-backend/internal/services/analytics"
	"github.com/harshpatel-22/subsight-backend/internal/services/billing"
	"github.com/harshpatel-22/subsight-backend/internal/services/notification"
	"github.com/harshpatel-22/subsight-backend/internal/services/subscription"
)

// Deps зависимости маршрутов.
type Deps struct {
	Subscriptions *subscription.Service
	Analytics     *analytics.Service
	Notifications *notification.Service
	Billing       *billing.Service
	Hub           *realtime.Hub
	Health        health.Checker
	Tokens        middlewarectx.TokenParser
	Limiter       *middlewarectx.RateLimiter
	Gatherer      prometheus.Gatherer
	Sentry        bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware. Sentry стоит внутри Recoverer: паника сначала
	// уходит в Sentry, затем Recoverer отвечает 500.
	mws := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middlewarectx.RedactToken,
		middleware.Logger,
		middleware.Recoverer,
	}
	if d.Sentry {
		mws = append(mws, sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(mws...)

	r.Get("/health", health.New(logger, d.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Stripe подписывает тело запроса, токена здесь нет
		r.Post("/billing/webhook", webhook.New(logger, d.Billing).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, logger))

			r.Get("/ws", socket.New(logger, d.Hub).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(d.Limiter.Middleware(logger))
				registerAPI(r, logger, d)
			})
		})
	})
}

func registerAPI(r chi.Router, logger *slog.Logger, d Deps) {
	r.Post("/subscriptions", create.New(logger, d.Subscriptions).ServeHTTP)
	r.Get("/subscriptions", list.New(logger, d.Subscriptions).ServeHTTP)
	r.Get("/subscriptions/{id}", read.New(logger, d.Subscriptions).ServeHTTP)
	r.Put("/subscriptions/{id}", update.New(logger, d.Subscriptions).ServeHTTP)
	r.Delete("/subscriptions/{id}", remove.New(logger, d.Subscriptions).ServeHTTP)
	r.Post("/subscriptions/{id}/renew", renew.New(logger, d.Subscriptions).ServeHTTP)

	r.Get("/analytics/monthly", monthly.New(logger, d.Analytics).ServeHTTP)
	r.Get("/analytics/yearly", yearly.New(logger, d.Analytics).ServeHTTP)
	r.Get("/analytics/category", category.New(logger, d.Analytics).ServeHTTP)
	r.Get("/analytics/top", top.New(logger, d.Analytics).ServeHTTP)

	r.Get("/notifications", notificationlist.New(logger, d.Notifications).ServeHTTP)
	r.Post("/notifications/read", markread.New(logger, d.Notifications).ServeHTTP)
	r.Post("/notifications/read-all", markall.New(logger, d.Notifications).ServeHTTP)
}
