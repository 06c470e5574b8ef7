package effects

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-console/internal/config"
	"github.com/magabrotheeeer/billing-console/internal/models"
	"github.com/magabrotheeeer/billing-console/internal/paymentapi"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

type APIMock struct{ mock.Mock }

func (m *APIMock) Transactions(ctx context.Context) ([]models.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *APIMock) Transaction(ctx context.Context, id string) (models.Payment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *APIMock) ProcessPayment(ctx context.Context, methodID string, amount decimal.Decimal) (models.Payment, error) {
	args := m.Called(ctx, methodID, amount)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *APIMock) RefundPayment(ctx context.Context, paymentID string) (models.Refund, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(models.Refund), args.Error(1)
}

func (m *APIMock) CreatePayment(ctx context.Context, req paymentapi.CreatePaymentRequest) (models.Payment, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *APIMock) RefundStatus(ctx context.Context, refundID string) (models.Refund, error) {
	args := m.Called(ctx, refundID)
	return args.Get(0).(models.Refund), args.Error(1)
}

func (m *APIMock) Currencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *APIMock) SubscriptionPlans(ctx context.Context) ([]models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plan), args.Error(1)
}

func (m *APIMock) PaymentStatus(ctx context.Context, transactionID string) (models.StatusReport, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(models.StatusReport), args.Error(1)
}

func (m *APIMock) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

func (m *APIMock) Invoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *APIMock) GenerateInvoice(ctx context.Context, userID string) (models.Invoice, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Invoice), args.Error(1)
}

func (m *APIMock) RetryInvoicePayment(ctx context.Context, invoiceID string) (models.Payment, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *APIMock) UserDetails(ctx context.Context) (models.UserDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserDetails), args.Error(1)
}

func (m *APIMock) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *APIMock) Subscribe(ctx context.Context, planID, userID string) (models.Subscription, error) {
	args := m.Called(ctx, planID, userID)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) CancelSubscription(ctx context.Context, id string) (models.Subscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) SubscriptionStatus(ctx context.Context, userID string) (models.Subscription, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Subscription), args.Error(1)
}

// recorder собирает терминальные действия, прошедшие через store.
type recorder struct {
	mu      sync.Mutex
	actions []store.Action
}

func (r *recorder) observe(a store.Action) {
	if _, ok := a.(store.RequestAction); ok {
		return
	}
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []store.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.Action(nil), r.actions...)
}

func testConfig() config.Effects {
	return config.Effects{
		RequestDeadline: time.Second,
		Workers:         4,
		RetryAttempts:   3,
		RetryDelay:      time.Millisecond,
	}
}

func setup(t *testing.T, api API, cfg config.Effects) (*store.Store, *Effects, *recorder) {
	t.Helper()
	st := store.New()
	rec := &recorder{}
	st.Observe(rec.observe)
	e := New(st, api, cfg, slog.New(slog.DiscardHandler), nil)
	t.Cleanup(e.Close)
	return st, e, rec
}

func waitTerminal(t *testing.T, rec *recorder, n int) []store.Action {
	t.Helper()
	require.Eventually(t, func() bool { return len(rec.snapshot()) >= n }, 2*time.Second, 5*time.Millisecond)
	return rec.snapshot()
}

func TestLoadPaymentHistory_Success(t *testing.T) {
	api := new(APIMock)
	payments := []models.Payment{{ID: "p1", Amount: decimal.NewFromInt(10), Status: models.PaymentCompleted}}
	api.On("Transactions", mock.Anything).Return(payments, nil).Once()

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.LoadPaymentHistory{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadPaymentHistorySuccess{Payload: payments}, got[0])

	ps := st.State().Payment
	assert.Equal(t, payments, ps.PaymentHistory)
	assert.False(t, ps.Loading)
	assert.Empty(t, ps.Error)
	api.AssertExpectations(t)
}

func TestLoadUserDetails_ServerErrorNotRetriedOn4xx(t *testing.T) {
	api := new(APIMock)
	api.On("UserDetails", mock.Anything).
		Return(models.UserDetails{}, &paymentapi.APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}).Once()

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.LoadUserDetails{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadUserDetailsFailure{Payload: "Server-side error: 401 Unauthorized"}, got[0])
	assert.Equal(t, "Server-side error: 401 Unauthorized", st.State().User.Error)
	assert.False(t, st.State().User.Loading)
	api.AssertNumberOfCalls(t, "UserDetails", 1)
}

func TestReadsAreRetriedOnTransportErrors(t *testing.T) {
	api := new(APIMock)
	subs := []models.Subscription{{ID: "s1", Status: models.SubscriptionActive}}
	api.On("Subscriptions", mock.Anything).Return(nil, &paymentapi.TransportError{Err: errors.New("connection reset")}).Twice()
	api.On("Subscriptions", mock.Anything).Return(subs, nil).Once()

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.LoadSubscriptions{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadSubscriptionsSuccess{Payload: subs}, got[0])
	api.AssertNumberOfCalls(t, "Subscriptions", 3)
}

func TestRetriesExhausted(t *testing.T) {
	api := new(APIMock)
	api.On("PaymentMethods", mock.Anything).Return(nil, &paymentapi.APIError{StatusCode: http.StatusServiceUnavailable, Message: "Service Unavailable"})

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.LoadPaymentMethods{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadPaymentMethodsFailure{Payload: "Server-side error: 503 Service Unavailable"}, got[0])
	api.AssertNumberOfCalls(t, "PaymentMethods", 3)
}

func TestCreatePayment_PassesCurrencyAndDescription(t *testing.T) {
	api := new(APIMock)
	amount := decimal.RequireFromString("1500")
	want := paymentapi.CreatePaymentRequest{MethodID: "pm_1", Amount: amount, Currency: "JPY", Description: "annual"}
	created := models.Payment{ID: "p7", Amount: amount, Status: models.PaymentPending}
	api.On("CreatePayment", mock.Anything, want).Return(created, nil).Once()

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.CreatePayment{MethodID: "pm_1", Amount: amount, Currency: "JPY", Description: "annual"})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.CreatePaymentSuccess{Payload: created}, got[0])
	require.Len(t, st.State().Payment.PaymentHistory, 1)
	assert.Equal(t, "p7", st.State().Payment.PaymentHistory[0].ID)
	api.AssertExpectations(t)
}

func TestLoadPlansCurrenciesAndRefundStatus(t *testing.T) {
	api := new(APIMock)
	plans := []models.Plan{{ID: "pro", Name: "Pro", Amount: decimal.RequireFromString("19.99"), Currency: "USD", Interval: "month"}}
	api.On("SubscriptionPlans", mock.Anything).Return(plans, nil).Once()
	api.On("Currencies", mock.Anything).Return(nil, &paymentapi.TransportError{Err: errors.New("connection reset")}).Once()
	api.On("Currencies", mock.Anything).Return([]string{"USD", "EUR"}, nil).Once()
	api.On("RefundStatus", mock.Anything, "rf-1").Return(models.Refund{ID: "rf-1", PaymentID: "p1", Status: "refunded"}, nil).Once()

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.LoadSubscriptionPlans{})
	st.Dispatch(store.LoadCurrencies{})
	st.Dispatch(store.LoadRefundStatus{RefundID: "rf-1"})

	waitTerminal(t, rec, 3)
	require.Eventually(t, func() bool {
		s := st.State()
		return !s.Payment.Loading && !s.Subscription.Loading
	}, time.Second, 5*time.Millisecond)

	s := st.State()
	assert.Equal(t, plans, s.Subscription.Plans)
	assert.Equal(t, []string{"USD", "EUR"}, s.Payment.Currencies)
	require.NotNil(t, s.Payment.LastRefund)
	assert.Equal(t, "refunded", s.Payment.LastRefund.Status)
	// чтение валют повторено после сетевой ошибки
	api.AssertNumberOfCalls(t, "Currencies", 2)
}

func TestWritesAreNotRetried(t *testing.T) {
	api := new(APIMock)
	amount := decimal.RequireFromString("49.99")
	api.On("ProcessPayment", mock.Anything, "pm_1", amount).
		Return(models.Payment{}, &paymentapi.TransportError{Err: errors.New("connection reset")}).Once()

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.ProcessPayment{MethodID: "pm_1", Amount: amount})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.ProcessPaymentFailure{Payload: "Client-side error: connection reset"}, got[0])
	api.AssertNumberOfCalls(t, "ProcessPayment", 1)
}

func TestDeadlineProducesTimeoutFailure(t *testing.T) {
	api := new(APIMock)
	api.On("Transactions", mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.DeadlineExceeded)

	cfg := testConfig()
	cfg.RequestDeadline = 20 * time.Millisecond
	st, _, rec := setup(t, api, cfg)
	st.Dispatch(store.LoadPaymentHistory{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadPaymentHistoryFailure{Payload: paymentapi.TimeoutMessage}, got[0])
	assert.Equal(t, paymentapi.TimeoutMessage, st.State().Payment.Error)
}

func TestDeadlineWithAPIIgnoringContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	api := new(APIMock)
	// вызов не смотрит на ctx и висит, пока тест не отпустит его
	api.On("Transactions", mock.Anything).Run(func(mock.Arguments) {
		<-block
	}).Return([]models.Payment{{ID: "late"}}, nil)

	cfg := testConfig()
	cfg.RequestDeadline = 50 * time.Millisecond
	st, e, rec := setup(t, api, cfg)
	st.Dispatch(store.LoadPaymentHistory{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadPaymentHistoryFailure{Payload: paymentapi.TimeoutMessage}, got[0])
	ps := st.State().Payment
	assert.False(t, ps.Loading)
	assert.Equal(t, paymentapi.TimeoutMessage, ps.Error)

	closed := make(chan struct{})
	go func() {
		e.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return while API call was still blocked")
	}

	// поздний ответ API отбрасывается
	block <- struct{}{}
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
	assert.Empty(t, st.State().Payment.PaymentHistory)
}

func TestPanicBecomesFailure(t *testing.T) {
	api := new(APIMock)
	api.On("CancelSubscription", mock.Anything, "s1").Run(func(mock.Arguments) {
		panic("boom")
	}).Return(models.Subscription{}, nil)

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.CancelSubscription{ID: "s1"})

	got := waitTerminal(t, rec, 1)
	failure, ok := got[0].(store.CancelSubscriptionFailure)
	require.True(t, ok, "got %T", got[0])
	assert.Contains(t, failure.Payload, "boom")
}

func TestExactlyOneTerminalPerRequest(t *testing.T) {
	api := new(APIMock)
	api.On("Transactions", mock.Anything).Return([]models.Payment{}, nil)
	api.On("UserDetails", mock.Anything).Return(models.UserDetails{ID: "u1"}, nil)
	api.On("Subscriptions", mock.Anything).Return(nil, &paymentapi.APIError{StatusCode: http.StatusBadRequest, Message: "Bad Request"})
	api.On("PaymentStatus", mock.Anything, "tx").Return(models.StatusReport{TransactionID: "tx", Status: models.PaymentCompleted}, nil)
	api.On("Invoices", mock.Anything, "u1").Return([]models.Invoice{}, nil)
	api.On("GenerateInvoice", mock.Anything, "u1").Return(models.Invoice{ID: "i1"}, nil)
	api.On("RetryInvoicePayment", mock.Anything, "i1").Return(models.Payment{ID: "p2"}, nil)
	api.On("RefundPayment", mock.Anything, "p2").Return(models.Refund{ID: "r1", PaymentID: "p2"}, nil)
	api.On("Transaction", mock.Anything, "p2").Return(models.Payment{ID: "p2"}, nil)
	api.On("Subscribe", mock.Anything, "pro", "u1").Return(models.Subscription{ID: "s1"}, nil)
	api.On("SubscriptionStatus", mock.Anything, "u1").Return(models.Subscription{ID: "s1"}, nil)
	api.On("CreatePayment", mock.Anything, mock.AnythingOfType("paymentapi.CreatePaymentRequest")).Return(models.Payment{ID: "p3"}, nil)
	api.On("RefundStatus", mock.Anything, "r1").Return(models.Refund{ID: "r1", Status: "pending"}, nil)
	api.On("Currencies", mock.Anything).Return([]string{"USD"}, nil)
	api.On("SubscriptionPlans", mock.Anything).Return(nil, &paymentapi.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"})

	requests := []store.Action{
		store.LoadPaymentHistory{},
		store.LoadUserDetails{},
		store.LoadSubscriptions{},
		store.LoadPaymentStatus{TransactionID: "tx"},
		store.LoadInvoices{UserID: "u1"},
		store.GenerateInvoice{UserID: "u1"},
		store.RetryInvoicePayment{InvoiceID: "i1"},
		store.RefundPayment{PaymentID: "p2"},
		store.LoadPayment{ID: "p2"},
		store.Subscribe{PlanID: "pro", UserID: "u1"},
		store.LoadSubscriptionStatus{UserID: "u1"},
		store.CreatePayment{MethodID: "pm_1", Amount: decimal.NewFromInt(7), Currency: "EUR"},
		store.LoadRefundStatus{RefundID: "r1"},
		store.LoadCurrencies{},
		store.LoadSubscriptionPlans{},
	}

	st, _, rec := setup(t, api, testConfig())
	var wg sync.WaitGroup
	for _, r := range requests {
		wg.Add(1)
		go func(a store.Action) {
			defer wg.Done()
			st.Dispatch(a)
		}(r)
	}
	wg.Wait()

	got := waitTerminal(t, rec, len(requests))
	// даём шанс лишним действиям проявиться
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, rec.snapshot(), len(requests))

	seen := make(map[store.ActionType]int)
	for _, a := range got {
		seen[a.Type()]++
	}
	for _, r := range requests {
		failure := failureFor(r.(store.RequestAction), "").Type()
		assert.Equal(t, 1, seen[failure]+seen[successTypeOf(r)], "request %s", r.Type())
	}

	assert.Eventually(t, func() bool {
		s := st.State()
		return !s.Payment.Loading && !s.User.Loading && !s.Subscription.Loading
	}, time.Second, 5*time.Millisecond)
}

// successTypeOf тип успеха для запроса: тип запроса плюс " Success".
func successTypeOf(a store.Action) store.ActionType {
	return a.Type() + " Success"
}

func TestClose_StopsObserving(t *testing.T) {
	api := new(APIMock)

	st, e, rec := setup(t, api, testConfig())
	e.Close()
	e.Close()

	// после Close наблюдатель отписан: запрос остаётся без ответа от эффектов
	st.Dispatch(store.LoadPaymentHistory{})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	api.AssertNotCalled(t, "Transactions", mock.Anything)
}

func TestOnActionAfterCloseDispatchesStoppedFailure(t *testing.T) {
	api := new(APIMock)

	st, e, rec := setup(t, api, testConfig())
	e.Close()

	// запрос, пойманный наблюдателем в момент закрытия
	e.onAction(store.LoadUserDetails{})

	got := waitTerminal(t, rec, 1)
	assert.Equal(t, store.LoadUserDetailsFailure{Payload: ErrStopped.Error()}, got[0])
	assert.Equal(t, ErrStopped.Error(), st.State().User.Error)
}

func TestNonRequestActionsAreIgnored(t *testing.T) {
	api := new(APIMock)

	st, _, rec := setup(t, api, testConfig())
	st.Dispatch(store.Logout{})
	st.Dispatch(store.ResetPaymentState{})

	time.Sleep(20 * time.Millisecond)
	// Logout и Reset не запросы: эффекты на них не отвечают
	assert.Len(t, rec.snapshot(), 2)
	api.AssertExpectations(t)
}
