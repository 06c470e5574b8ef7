// Package audit публикует каждое действие store в RabbitMQ для журнала аудита.
//
// Наблюдатель только кладёт событие в буфер; публикацией занимается отдельная
// горутина, поэтому медленный брокер не задерживает Dispatch. При переполнении
// буфера событие отбрасывается.
package audit

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/billing-console/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

const defaultBuffer = 256

// Event тело сообщения аудита.
type Event struct {
	ID     string       `json:"id"`
	Type   string       `json:"type"`
	At     time.Time    `json:"at"`
	Action store.Action `json:"action"`
}

// Observable часть store, на которую подписывается аудит.
type Observable interface {
	Observe(fn func(store.Action)) (unsubscribe func())
}

// Metrics принимает результат публикации.
type Metrics interface {
	IncAuditPublish(ok bool)
}

type Trail struct {
	ch       rabbitmq.Channel
	exchange string
	log      *slog.Logger
	metrics  Metrics
	now      func() time.Time

	mu          sync.RWMutex
	closed      bool
	events      chan Event
	done        chan struct{}
	unsubscribe func()
}

// New запускает публикацию событий в exchange. metrics может быть nil.
func New(ch rabbitmq.Channel, exchange string, log *slog.Logger, m Metrics) *Trail {
	t := &Trail{
		ch:       ch,
		exchange: exchange,
		log:      log.With(slog.String("component", "audit")),
		metrics:  m,
		now:      time.Now,
		events:   make(chan Event, defaultBuffer),
		done:     make(chan struct{}),
	}
	go t.publishLoop()
	return t
}

// Attach подписывает аудит на действия store.
func (t *Trail) Attach(st Observable) {
	unsubscribe := st.Observe(t.Record)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		unsubscribe()
		return
	}
	t.unsubscribe = unsubscribe
}

// Record ставит действие в очередь на публикацию.
func (t *Trail) Record(action store.Action) {
	ev := Event{
		ID:     uuid.NewString(),
		Type:   string(action.Type()),
		At:     t.now().UTC(),
		Action: action,
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.events <- ev:
	default:
		t.log.Warn("audit buffer is full, event dropped", sl.Action(ev.Type))
		t.observe(false)
	}
}

// Close отписывается от store и дожидается публикации событий из буфера.
func (t *Trail) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	unsubscribe := t.unsubscribe
	close(t.events)
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	<-t.done
}

func (t *Trail) publishLoop() {
	defer close(t.done)
	for ev := range t.events {
		err := rabbitmq.PublishMessage(t.ch, t.exchange, RoutingKey(store.ActionType(ev.Type)), rabbitmq.Message{
			CorrelationID: ev.ID,
			Type:          ev.Type,
			Timestamp:     ev.At,
			Body:          ev,
		})
		if err != nil {
			t.log.Error("failed to publish audit event", sl.Action(ev.Type), sl.Err(err))
		}
		t.observe(err == nil)
	}
}

func (t *Trail) observe(ok bool) {
	if t.metrics != nil {
		t.metrics.IncAuditPublish(ok)
	}
}

// RoutingKey строит ключ маршрутизации из типа действия:
// "[Payment] Load Payment History" -> "payment.load_payment_history".
func RoutingKey(actionType store.ActionType) string {
	s := string(actionType)
	slice, name := "store", s
	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 0 {
			slice, name = s[1:end], s[end+1:]
		}
	}
	name = strings.Join(strings.Fields(strings.ToLower(name)), "_")
	slice = strings.ToLower(strings.TrimSpace(slice))
	if name == "" {
		return slice
	}
	return slice + "." + name
}
