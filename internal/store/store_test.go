package store_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-console/internal/models"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

type countingMetrics struct {
	mu    sync.Mutex
	count map[string]int
}

func (m *countingMetrics) IncDispatch(actionType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == nil {
		m.count = map[string]int{}
	}
	m.count[actionType]++
}

func TestStore_DispatchAndState(t *testing.T) {
	metrics := &countingMetrics{}
	s := store.New(store.WithMetrics(metrics))

	initial := s.State()
	require.NotNil(t, initial)
	assert.False(t, initial.Payment.Loading)

	s.Dispatch(store.LoadPaymentHistory{})
	assert.True(t, s.State().Payment.Loading)
	assert.False(t, initial.Payment.Loading)

	s.Dispatch(store.LoadPaymentHistorySuccess{Payload: []models.Payment{{ID: "tx-1"}}})
	assert.False(t, s.State().Payment.Loading)
	assert.Len(t, s.State().Payment.PaymentHistory, 1)

	assert.Equal(t, 1, metrics.count[string(store.LoadPaymentHistoryType)])
	assert.Equal(t, 1, metrics.count[string(store.LoadPaymentHistorySuccessType)])
}

func TestStore_SubscribeNotifiesOnlyOnChange(t *testing.T) {
	s := store.New()

	var seen []*store.AppState
	unsubscribe := s.Subscribe(func(st *store.AppState) {
		seen = append(seen, st)
	})

	s.Dispatch(store.LoadUserDetails{})
	s.Dispatch(store.ResetPaymentState{})
	require.Len(t, seen, 2)
	assert.Same(t, s.State(), seen[1])

	unsubscribe()
	unsubscribe()
	s.Dispatch(store.LoadSubscriptions{})
	assert.Len(t, seen, 2)
}

type noopAction struct{}

func (noopAction) Type() store.ActionType { return "[Test] Noop" }

func TestStore_NoChangeSkipsListenersButReachesObservers(t *testing.T) {
	s := store.New()

	listenerCalls := 0
	s.Subscribe(func(*store.AppState) { listenerCalls++ })

	var observed []store.ActionType
	s.Observe(func(a store.Action) { observed = append(observed, a.Type()) })

	before := s.State()
	s.Dispatch(noopAction{})

	assert.Same(t, before, s.State())
	assert.Equal(t, 0, listenerCalls)
	assert.Equal(t, []store.ActionType{"[Test] Noop"}, observed)
}

func TestStore_ReentrantDispatchIsQueued(t *testing.T) {
	s := store.New()

	var order []store.ActionType
	s.Observe(func(a store.Action) {
		order = append(order, a.Type())
		if _, ok := a.(store.LoadPaymentHistory); ok {
			s.Dispatch(store.LoadPaymentHistorySuccess{Payload: nil})
		}
	})

	s.Dispatch(store.LoadPaymentHistory{})

	assert.Equal(t, []store.ActionType{store.LoadPaymentHistoryType, store.LoadPaymentHistorySuccessType}, order)
	assert.False(t, s.State().Payment.Loading)
}

func TestStore_ListenerPanicDoesNotBreakStore(t *testing.T) {
	s := store.New()
	s.Subscribe(func(*store.AppState) { panic("boom") })

	assert.NotPanics(t, func() {
		s.Dispatch(store.LoadUserDetails{})
	})
	s.Dispatch(store.LoadUserDetailsFailure{Payload: "x"})
	assert.Equal(t, "x", s.State().User.Error)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := store.New()

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(store.LoadSubscriptions{})
		}()
	}
	wg.Wait()

	for range n {
		s.Dispatch(store.LoadSubscriptionsSuccess{Payload: []models.Subscription{}})
	}
	assert.False(t, s.State().Subscription.Loading)
}

func TestStore_WithInitialStateAndMetaReducers(t *testing.T) {
	initial := store.InitialState()
	var reduced []store.ActionType
	meta := func(next store.Reducer) store.Reducer {
		return func(st *store.AppState, a store.Action) *store.AppState {
			reduced = append(reduced, a.Type())
			return next(st, a)
		}
	}

	s := store.New(store.WithInitialState(initial), store.WithMetaReducers(meta))
	assert.Same(t, initial, s.State())

	s.Dispatch(store.Logout{})
	assert.Equal(t, []store.ActionType{store.LogoutType}, reduced)
}
