package billingconsole

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/billing-console/internal/audit"
	"github.com/magabrotheeeer/billing-console/internal/cache"
	"github.com/magabrotheeeer/billing-console/internal/config"
	"github.com/magabrotheeeer/billing-console/internal/effects"
	"github.com/magabrotheeeer/billing-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-console/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
	"github.com/magabrotheeeer/billing-console/internal/lib/token"
	"github.com/magabrotheeeer/billing-console/internal/metrics"
	"github.com/magabrotheeeer/billing-console/internal/paymentapi"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

const (
	shutdownTimeout = 15 * time.Second
	rateLimitRPS    = 5
	rateLimitBurst  = 10
)

// App владеет единственным store консоли и всеми его зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	store   *store.Store
	effects *effects.Effects
	tokens  *token.Static

	cache   *cache.Cache
	audit   *audit.Trail
	amqpCh  *amqp.Channel
	amqpCon *amqp.Connection

	closeOnce sync.Once
}

// New собирает приложение. Redis и RabbitMQ необязательны: пустой адрес отключает их.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "billingconsole.New"

	a := &App{logger: logger}
	m := metrics.New()

	a.store = store.New(
		store.WithLogger(logger),
		store.WithMetrics(m),
		store.WithMetaReducers(store.LoggingMetaReducer(logger)),
	)

	a.tokens = token.NewStatic(cfg.PaymentsAPI.Token)
	apiOpts := []paymentapi.Option{
		paymentapi.WithTimeout(cfg.PaymentsAPI.Timeout),
		paymentapi.WithLogger(logger),
	}

	if cfg.RedisConnection.AddressRedis != "" {
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.cache = c
		apiOpts = append(apiOpts, paymentapi.WithCache(c, cfg.PaymentsAPI.CacheTTL))
		logger.Info("payments api read cache enabled", slog.Duration("ttl", cfg.PaymentsAPI.CacheTTL))
	}

	api := paymentapi.New(cfg.PaymentsAPI.BaseURL, a.tokens, apiOpts...)
	a.effects = effects.New(a.store, api, cfg.Effects, logger, m)
	m.RegisterPoolMetrics("effects", a.effects.Pool())

	if cfg.RabbitMQ.URL != "" {
		if err := a.startAudit(ctx, cfg.RabbitMQ, m); err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, a.store, m.Handler(), middlewarectx.NewLimiter(rateLimitRPS, rateLimitBurst))

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) startAudit(ctx context.Context, cfg config.RabbitMQ, m *metrics.Metrics) error {
	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return err
	}
	a.amqpCon = conn

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.AuditQueues())
	if err != nil {
		return err
	}
	a.amqpCh = ch

	a.audit = audit.New(ch, cfg.Exchange, a.logger, m)
	a.audit.Attach(a.store)
	a.logger.Info("action audit enabled", slog.String("exchange", cfg.Exchange))
	return nil
}

// Store возвращает store приложения.
func (a *App) Store() *store.Store {
	return a.store
}

// Handler возвращает корневой HTTP-обработчик.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
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

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close останавливает эффекты раньше аудита, чтобы терминальные действия
// успели попасть в журнал.
func (a *App) close() {
	a.closeOnce.Do(a.release)
}

func (a *App) release() {
	if a.effects != nil {
		a.effects.Close()
	}
	if a.audit != nil {
		a.audit.Close()
	}
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpCon != nil {
		if err := a.amqpCon.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
}
