// Package carwashaggregator предоставляет маршруты для основного приложения.
package carwashaggregator

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/auth/register"
	slotlist "github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/slots/list"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/addon"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/assign"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/complete"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/carwash-aggregator/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/carwash-aggregator/internal/services/auth"
	slotservice "github.com/magabrotheeeer/carwash-aggregator/internal/services/slots"
	services "github.com/magabrotheeeer/carwash-aggregator/internal/services/subscription"
	"github.com/magabrotheeeer/carwash-aggregator/internal/storage"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker middlewarectx.TokenParser,
	db *storage.Storage, subscriptionService *services.SubscriptionService,
	slotService *slotservice.SlotService, authService *authservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/list", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/addons", addon.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/complete", complete.New(logger, subscriptionService).ServeHTTP)
			r.Get("/slots", slotlist.New(logger, slotService).ServeHTTP)

			// Только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/subscriptions/{id}/worker", assign.New(logger, subscriptionService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
