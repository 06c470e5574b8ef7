package store

import (
	"log/slog"

	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
	"github.com/magabrotheeeer/billing-console/internal/models"
)

// Reducer чистая функция перехода корневого состояния.
type Reducer func(state *AppState, action Action) *AppState

// MetaReducer оборачивает Reducer, добавляя сквозное поведение.
type MetaReducer func(Reducer) Reducer

// Reduce корневой редьюсер: прогоняет действие через редьюсеры всех срезов.
// Если ни один срез не изменился, возвращается тот же указатель state.
func Reduce(state *AppState, action Action) *AppState {
	if state == nil {
		state = InitialState()
	}
	payment := ReducePayment(state.Payment, action)
	user := ReduceUser(state.User, action)
	subscription := ReduceSubscription(state.Subscription, action)

	if payment == state.Payment && user == state.User && subscription == state.Subscription {
		return state
	}
	return &AppState{
		Payment:      payment,
		User:         user,
		Subscription: subscription,
	}
}

// Compose оборачивает root мета-редьюсерами; первый в списке становится внешним.
func Compose(root Reducer, metas ...MetaReducer) Reducer {
	r := root
	for i := len(metas) - 1; i >= 0; i-- {
		r = metas[i](r)
	}
	return r
}

// LoggingMetaReducer пишет тип каждого действия и факт смены состояния в debug-лог.
func LoggingMetaReducer(log *slog.Logger) MetaReducer {
	return func(next Reducer) Reducer {
		return func(state *AppState, action Action) *AppState {
			res := next(state, action)
			log.Debug("action reduced",
				sl.Action(string(action.Type())),
				slog.Bool("changed", res != state),
			)
			return res
		}
	}
}

// ReducePayment редьюсер среза платежей.
func ReducePayment(state *PaymentState, action Action) *PaymentState {
	if state == nil {
		state = InitialPaymentState()
	}
	a, ok := action.(PaymentAction)
	if !ok {
		return state
	}

	switch act := a.(type) {
	case LoadPaymentHistory, LoadPayment, ProcessPayment, RefundPayment, RetryInvoicePayment,
		LoadPaymentMethods, LoadPaymentStatus, LoadInvoices, GenerateInvoice,
		CreatePayment, LoadRefundStatus, LoadCurrencies:
		next := *state
		next.pending++
		next.Loading = true
		next.Error = ""
		return &next

	case LoadPaymentHistorySuccess:
		next := state.settle()
		next.PaymentHistory = act.Payload
		return next
	case LoadPaymentSuccess:
		next := state.settle()
		p := act.Payload
		next.SelectedPayment = &p
		return next
	case ProcessPaymentSuccess:
		next := state.settle()
		next.PaymentHistory = prepend(state.PaymentHistory, act.Payload)
		return next
	case RetryInvoicePaymentSuccess:
		next := state.settle()
		next.PaymentHistory = prepend(state.PaymentHistory, act.Payload)
		return next
	case CreatePaymentSuccess:
		next := state.settle()
		next.PaymentHistory = prepend(state.PaymentHistory, act.Payload)
		return next
	case LoadRefundStatusSuccess:
		next := state.settle()
		refund := act.Payload
		next.LastRefund = &refund
		// завершённый возврат переводит платёж из refund_pending в refunded
		if refund.Status == string(models.PaymentRefunded) {
			next.PaymentHistory, next.SelectedPayment = state.withStatus(refund.PaymentID, models.PaymentRefunded)
		}
		return next
	case LoadCurrenciesSuccess:
		next := state.settle()
		next.Currencies = act.Payload
		return next
	case RefundPaymentSuccess:
		next := state.settle()
		refund := act.Payload
		next.LastRefund = &refund
		next.PaymentHistory, next.SelectedPayment = state.withStatus(refund.PaymentID, models.PaymentRefundPending)
		return next
	case LoadPaymentMethodsSuccess:
		next := state.settle()
		next.PaymentMethods = act.Payload
		return next
	case LoadPaymentStatusSuccess:
		next := state.settle()
		report := act.Payload
		next.LastStatus = &report
		next.PaymentHistory, next.SelectedPayment = state.withStatus(report.TransactionID, report.Status)
		return next
	case LoadInvoicesSuccess:
		next := state.settle()
		next.Invoices = act.Payload
		return next
	case GenerateInvoiceSuccess:
		next := state.settle()
		invoices := make([]models.Invoice, 0, len(state.Invoices)+1)
		invoices = append(invoices, state.Invoices...)
		next.Invoices = append(invoices, act.Payload)
		return next

	case LoadPaymentHistoryFailure:
		return state.fail(act.Payload)
	case LoadPaymentFailure:
		return state.fail(act.Payload)
	case ProcessPaymentFailure:
		return state.fail(act.Payload)
	case RefundPaymentFailure:
		return state.fail(act.Payload)
	case RetryInvoicePaymentFailure:
		return state.fail(act.Payload)
	case LoadPaymentMethodsFailure:
		return state.fail(act.Payload)
	case LoadPaymentStatusFailure:
		return state.fail(act.Payload)
	case LoadInvoicesFailure:
		return state.fail(act.Payload)
	case GenerateInvoiceFailure:
		return state.fail(act.Payload)
	case CreatePaymentFailure:
		return state.fail(act.Payload)
	case LoadRefundStatusFailure:
		return state.fail(act.Payload)
	case LoadCurrenciesFailure:
		return state.fail(act.Payload)

	case ResetPaymentState:
		return InitialPaymentState()
	default:
		return state
	}
}

func (s *PaymentState) settle() *PaymentState {
	next := *s
	next.pending = release(s.pending)
	next.Loading = next.pending > 0
	return &next
}

func (s *PaymentState) fail(msg string) *PaymentState {
	next := s.settle()
	next.Error = failureMessage(msg)
	return next
}

// withStatus возвращает историю и выбранный платёж с обновлённым статусом транзакции id.
// Если транзакции нет, возвращаются исходные значения.
func (s *PaymentState) withStatus(id string, status models.PaymentStatus) ([]models.Payment, *models.Payment) {
	history := s.PaymentHistory
	for i := range s.PaymentHistory {
		if s.PaymentHistory[i].ID == id {
			history = make([]models.Payment, len(s.PaymentHistory))
			copy(history, s.PaymentHistory)
			history[i].Status = status
			break
		}
	}

	selected := s.SelectedPayment
	if selected != nil && selected.ID == id {
		p := *selected
		p.Status = status
		selected = &p
	}
	return history, selected
}

func prepend(history []models.Payment, p models.Payment) []models.Payment {
	res := make([]models.Payment, 0, len(history)+1)
	res = append(res, p)
	return append(res, history...)
}

// ReduceUser редьюсер среза пользователя.
func ReduceUser(state *UserState, action Action) *UserState {
	if state == nil {
		state = InitialUserState()
	}
	a, ok := action.(UserAction)
	if !ok {
		return state
	}

	switch act := a.(type) {
	case LoadUserDetails:
		next := *state
		next.pending++
		next.Loading = true
		next.Error = ""
		return &next
	case LoadUserDetailsSuccess:
		next := *state
		next.pending = release(state.pending)
		next.Loading = next.pending > 0
		details := act.Payload
		next.UserDetails = &details
		next.IsLoggedIn = true
		return &next
	case LoadUserDetailsFailure:
		next := *state
		next.pending = release(state.pending)
		next.Loading = next.pending > 0
		next.Error = failureMessage(act.Payload)
		return &next
	case Logout:
		return InitialUserState()
	default:
		return state
	}
}

// ReduceSubscription редьюсер среза подписок.
func ReduceSubscription(state *SubscriptionState, action Action) *SubscriptionState {
	if state == nil {
		state = InitialSubscriptionState()
	}
	a, ok := action.(SubscriptionAction)
	if !ok {
		return state
	}

	switch act := a.(type) {
	case LoadSubscriptions, Subscribe, CancelSubscription, LoadSubscriptionStatus, LoadSubscriptionPlans:
		next := *state
		next.pending++
		next.Loading = true
		next.Error = ""
		return &next

	case LoadSubscriptionsSuccess:
		next := state.settle()
		next.Subscriptions = act.Payload
		return next
	case SubscribeSuccess:
		next := state.settle()
		sub := act.Payload
		subs := make([]models.Subscription, 0, len(state.Subscriptions)+1)
		subs = append(subs, state.Subscriptions...)
		next.Subscriptions = append(subs, sub)
		next.ActiveSubscription = &sub
		return next
	case CancelSubscriptionSuccess:
		next := state.settle()
		sub := act.Payload
		next.Subscriptions = replaceSubscription(state.Subscriptions, sub)
		if state.ActiveSubscription != nil && state.ActiveSubscription.ID == sub.ID {
			next.ActiveSubscription = &sub
		}
		return next
	case LoadSubscriptionStatusSuccess:
		next := state.settle()
		sub := act.Payload
		next.ActiveSubscription = &sub
		return next
	case LoadSubscriptionPlansSuccess:
		next := state.settle()
		next.Plans = act.Payload
		return next

	case LoadSubscriptionsFailure:
		return state.fail(act.Payload)
	case SubscribeFailure:
		return state.fail(act.Payload)
	case CancelSubscriptionFailure:
		return state.fail(act.Payload)
	case LoadSubscriptionStatusFailure:
		return state.fail(act.Payload)
	case LoadSubscriptionPlansFailure:
		return state.fail(act.Payload)
	default:
		return state
	}
}

func (s *SubscriptionState) settle() *SubscriptionState {
	next := *s
	next.pending = release(s.pending)
	next.Loading = next.pending > 0
	return &next
}

func (s *SubscriptionState) fail(msg string) *SubscriptionState {
	next := s.settle()
	next.Error = failureMessage(msg)
	return next
}

func replaceSubscription(subs []models.Subscription, sub models.Subscription) []models.Subscription {
	for i := range subs {
		if subs[i].ID == sub.ID {
			res := make([]models.Subscription, len(subs))
			copy(res, subs)
			res[i] = sub
			return res
		}
	}
	return subs
}
