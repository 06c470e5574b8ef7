package store

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
)

// Metrics принимает счётчики диспетчеризации.
type Metrics interface {
	IncDispatch(actionType string)
}

type listener struct {
	id uint64
	fn func(*AppState)
}

type observer struct {
	id uint64
	fn func(Action)
}

// Store владеет единственным экземпляром AppState.
//
// Действия обрабатываются строго по одному в порядке поступления: редьюсер,
// затем подписчики состояния, затем наблюдатели действий. Повторный Dispatch
// из подписчика или из другой горутины ставит действие в очередь, которую
// разбирает текущий обработчик.
type Store struct {
	state   atomic.Pointer[AppState]
	reducer Reducer
	log     *slog.Logger
	metrics Metrics

	qmu      sync.Mutex
	queue    []Action
	draining bool

	smu       sync.Mutex
	nextID    uint64
	listeners []listener
	observers []observer
}

// Option настраивает Store при создании.
type Option func(*Store)

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithInitialState задаёт стартовое состояние вместо InitialState.
func WithInitialState(state *AppState) Option {
	return func(s *Store) {
		if state != nil {
			s.state.Store(state)
		}
	}
}

// WithMetaReducers оборачивает корневой редьюсер.
func WithMetaReducers(metas ...MetaReducer) Option {
	return func(s *Store) { s.reducer = Compose(s.reducer, metas...) }
}

// WithMetrics задаёт сборщик метрик.
func WithMetrics(m Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New создаёт Store с начальным состоянием.
func New(opts ...Option) *Store {
	s := &Store{
		reducer: Reduce,
		log:     slog.New(slog.DiscardHandler),
	}
	s.state.Store(InitialState())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State возвращает текущее состояние без подписки.
func (s *Store) State() *AppState {
	return s.state.Load()
}

// Dispatch передаёт действие в редьюсер и уведомляет подписчиков.
func (s *Store) Dispatch(action Action) {
	if action == nil {
		return
	}

	s.qmu.Lock()
	s.queue = append(s.queue, action)
	if s.draining {
		s.qmu.Unlock()
		return
	}
	s.draining = true
	s.qmu.Unlock()

	for {
		s.qmu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.qmu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.qmu.Unlock()

		s.process(next)
	}
}

func (s *Store) process(action Action) {
	prev := s.state.Load()
	next := s.reduce(prev, action)
	s.state.Store(next)

	if s.metrics != nil {
		s.metrics.IncDispatch(string(action.Type()))
	}

	s.smu.Lock()
	listeners := s.listeners
	observers := s.observers
	s.smu.Unlock()

	if next != prev {
		for _, l := range listeners {
			s.safeCall(action, func() { l.fn(next) })
		}
	}
	for _, o := range observers {
		s.safeCall(action, func() { o.fn(action) })
	}
}

func (s *Store) reduce(prev *AppState, action Action) (next *AppState) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("reducer panicked, state unchanged",
				sl.Action(string(action.Type())),
				slog.String("panic", fmt.Sprint(r)),
			)
			next = prev
		}
	}()
	return s.reducer(prev, action)
}

func (s *Store) safeCall(action Action, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("store callback panicked",
				sl.Action(string(action.Type())),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn()
}

// Subscribe регистрирует подписчика, которого вызывают после каждого изменения состояния.
// Возвращает функцию отписки; повторный вызов безопасен.
func (s *Store) Subscribe(fn func(*AppState)) (unsubscribe func()) {
	s.smu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(cloneSlice(s.listeners), listener{id: id, fn: fn})
	s.smu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.smu.Lock()
			defer s.smu.Unlock()
			res := make([]listener, 0, len(s.listeners))
			for _, l := range s.listeners {
				if l.id != id {
					res = append(res, l)
				}
			}
			s.listeners = res
		})
	}
}

// Observe регистрирует наблюдателя действий. Наблюдатель видит каждое действие
// уже после того, как редьюсер применил его к состоянию.
func (s *Store) Observe(fn func(Action)) (unsubscribe func()) {
	s.smu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(cloneSlice(s.observers), observer{id: id, fn: fn})
	s.smu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.smu.Lock()
			defer s.smu.Unlock()
			res := make([]observer, 0, len(s.observers))
			for _, o := range s.observers {
				if o.id != id {
					res = append(res, o)
				}
			}
			s.observers = res
		})
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return out
}
