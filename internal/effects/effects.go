// Package effects выполняет запросы к платёжному API в ответ на действия-запросы store.
//
// На каждое действие-запрос приходится ровно одно терминальное действие:
// успех с данными или ошибка с нормализованным текстом. Запросы исполняются
// в пуле воркеров pond и не упорядочены между собой.
package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	retry "github.com/avast/retry-go/v4"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-console/internal/config"
	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
	"github.com/magabrotheeeer/billing-console/internal/metrics"
	"github.com/magabrotheeeer/billing-console/internal/models"
	"github.com/magabrotheeeer/billing-console/internal/paymentapi"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// ErrStopped ответ на запрос, поступивший после Close.
var ErrStopped = errors.New("effects stopped")

const defaultDeadline = 30 * time.Second

// API операции платёжного API, которые вызывают эффекты.
type API interface {
	Transactions(ctx context.Context) ([]models.Payment, error)
	Transaction(ctx context.Context, id string) (models.Payment, error)
	CreatePayment(ctx context.Context, req paymentapi.CreatePaymentRequest) (models.Payment, error)
	ProcessPayment(ctx context.Context, methodID string, amount decimal.Decimal) (models.Payment, error)
	RefundPayment(ctx context.Context, paymentID string) (models.Refund, error)
	RefundStatus(ctx context.Context, refundID string) (models.Refund, error)
	PaymentStatus(ctx context.Context, transactionID string) (models.StatusReport, error)
	PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	Currencies(ctx context.Context) ([]string, error)
	Invoices(ctx context.Context, userID string) ([]models.Invoice, error)
	GenerateInvoice(ctx context.Context, userID string) (models.Invoice, error)
	RetryInvoicePayment(ctx context.Context, invoiceID string) (models.Payment, error)
	UserDetails(ctx context.Context) (models.UserDetails, error)
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	SubscriptionPlans(ctx context.Context) ([]models.Plan, error)
	Subscribe(ctx context.Context, planID, userID string) (models.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (models.Subscription, error)
	SubscriptionStatus(ctx context.Context, userID string) (models.Subscription, error)
}

// Dispatcher часть store, нужная эффектам.
type Dispatcher interface {
	Dispatch(action store.Action)
	Observe(fn func(store.Action)) (unsubscribe func())
}

// Metrics принимает длительность и исход запросов.
type Metrics interface {
	ObserveEffect(actionType, outcome string, took time.Duration)
}

type Effects struct {
	store   Dispatcher
	api     API
	cfg     config.Effects
	log     *slog.Logger
	metrics Metrics
	pool    pond.Pool

	mu          sync.RWMutex
	closed      bool
	unsubscribe func()
}

// New подписывается на действия store и начинает обслуживать запросы.
// metrics может быть nil.
func New(st Dispatcher, api API, cfg config.Effects, log *slog.Logger, m Metrics) *Effects {
	if cfg.RequestDeadline <= 0 {
		cfg.RequestDeadline = defaultDeadline
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	// retry-go трактует 0 попыток как бесконечные повторы
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 1
	}

	e := &Effects{
		store:   st,
		api:     api,
		cfg:     cfg,
		log:     log.With(slog.String("component", "effects")),
		metrics: m,
		pool:    pond.NewPool(cfg.Workers),
	}
	e.unsubscribe = st.Observe(e.onAction)
	return e
}

// Pool пул воркеров, например для регистрации метрик.
func (e *Effects) Pool() pond.Pool {
	return e.pool
}

// Close прекращает приём новых запросов и ждёт завершения уже запущенных.
func (e *Effects) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.unsubscribe()
	e.pool.StopAndWait()
}

func (e *Effects) onAction(action store.Action) {
	req, ok := action.(store.RequestAction)
	if !ok {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		// Dispatch из наблюдателя ставится в очередь store, взаимной блокировки нет
		e.store.Dispatch(failureFor(req, ErrStopped.Error()))
		return
	}
	e.pool.Submit(func() { e.run(req) })
}

func (e *Effects) run(req store.RequestAction) {
	const op = "effects.run"
	log := e.log.With(slog.String("op", op), sl.Action(string(req.Type())))

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestDeadline)
	defer cancel()

	// буфер на один результат: опоздавший вызов API не блокируется и просто отбрасывается
	done := make(chan executed, 1)
	go func() {
		res, err := e.execute(ctx, req)
		done <- executed{action: res, err: err}
	}()

	var result store.Action
	var err error
	select {
	case r := <-done:
		result, err = r.action, r.err
	case <-ctx.Done():
		err = fmt.Errorf("%s: %w", op, ctx.Err())
	}

	outcome := metrics.OutcomeSuccess
	if err != nil {
		msg := paymentapi.Message(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = paymentapi.TimeoutMessage
			outcome = metrics.OutcomeTimeout
		} else {
			outcome = metrics.OutcomeFailure
		}
		log.Warn("request failed", sl.Err(err))
		result = failureFor(req, msg)
	}

	if e.metrics != nil {
		e.metrics.ObserveEffect(string(req.Type()), outcome, time.Since(start))
	}
	e.store.Dispatch(result)
}

type executed struct {
	action store.Action
	err    error
}

// execute вызывает API. Паника в вызове превращается в ошибку.
func (e *Effects) execute(ctx context.Context, req store.RequestAction) (res store.Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("effects.execute: panic: %v", r)
		}
	}()
	return e.handle(ctx, req)
}

// read выполняет идемпотентный запрос с повторами на сетевых ошибках и 5xx.
func read[T any](ctx context.Context, e *Effects, fn func(context.Context) (T, error)) (T, error) {
	return retry.DoWithData(
		func() (T, error) { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(e.cfg.RetryAttempts),
		retry.Delay(e.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(paymentapi.IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			e.log.Debug("retrying request", slog.Uint64("attempt", uint64(n)+1), sl.Err(err))
		}),
	)
}

// readArg вариант read для запросов с одним строковым аргументом.
func readArg[T any](ctx context.Context, e *Effects, fn func(context.Context, string) (T, error), arg string) (T, error) {
	return read(ctx, e, func(ctx context.Context) (T, error) { return fn(ctx, arg) })
}
