// Package billingconsole собирает консоль: store, эффекты, клиент платёжного API,
// кэш, аудит и HTTP-поверхность.
package billingconsole

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/billing-console/internal/http/handlers/health"
	"github.com/magabrotheeeer/billing-console/internal/http/handlers/load"
	"github.com/magabrotheeeer/billing-console/internal/http/handlers/payment/history"
	"github.com/magabrotheeeer/billing-console/internal/http/handlers/payment/process"
	"github.com/magabrotheeeer/billing-console/internal/http/handlers/state"
	"github.com/magabrotheeeer/billing-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, st *store.Store, metricsHandler http.Handler, limiter *rate.Limiter) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", health.New(logger).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/payments", history.New(logger, st).ServeHTTP)
		r.Get("/state", state.New(logger, st).ServeHTTP)

		// Запуск запросов ограничен общим лимитером
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Post("/load/{slice}", load.New(logger, st).ServeHTTP)
			r.Post("/payments/process", process.New(logger, st).ServeHTTP)
		})
	})

	r.Handle("/metrics", metricsHandler)
}
