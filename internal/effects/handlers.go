package effects

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/billing-console/internal/paymentapi"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// handle сопоставляет запросу вызов API и действие успеха.
// Запись (создание и проведение платежа, возврат, подписка) не повторяется.
func (e *Effects) handle(ctx context.Context, req store.RequestAction) (store.Action, error) {
	switch a := req.(type) {
	case store.LoadPaymentHistory:
		v, err := read(ctx, e, e.api.Transactions)
		if err != nil {
			return nil, err
		}
		return store.LoadPaymentHistorySuccess{Payload: v}, nil
	case store.LoadPayment:
		v, err := readArg(ctx, e, e.api.Transaction, a.ID)
		if err != nil {
			return nil, err
		}
		return store.LoadPaymentSuccess{Payload: v}, nil
	case store.ProcessPayment:
		v, err := e.api.ProcessPayment(ctx, a.MethodID, a.Amount)
		if err != nil {
			return nil, err
		}
		return store.ProcessPaymentSuccess{Payload: v}, nil
	case store.CreatePayment:
		v, err := e.api.CreatePayment(ctx, paymentapi.CreatePaymentRequest{
			MethodID:    a.MethodID,
			Amount:      a.Amount,
			Currency:    a.Currency,
			Description: a.Description,
		})
		if err != nil {
			return nil, err
		}
		return store.CreatePaymentSuccess{Payload: v}, nil
	case store.LoadRefundStatus:
		v, err := readArg(ctx, e, e.api.RefundStatus, a.RefundID)
		if err != nil {
			return nil, err
		}
		return store.LoadRefundStatusSuccess{Payload: v}, nil
	case store.LoadCurrencies:
		v, err := read(ctx, e, e.api.Currencies)
		if err != nil {
			return nil, err
		}
		return store.LoadCurrenciesSuccess{Payload: v}, nil
	case store.RefundPayment:
		v, err := e.api.RefundPayment(ctx, a.PaymentID)
		if err != nil {
			return nil, err
		}
		return store.RefundPaymentSuccess{Payload: v}, nil
	case store.RetryInvoicePayment:
		v, err := e.api.RetryInvoicePayment(ctx, a.InvoiceID)
		if err != nil {
			return nil, err
		}
		return store.RetryInvoicePaymentSuccess{Payload: v}, nil
	case store.LoadPaymentMethods:
		v, err := read(ctx, e, e.api.PaymentMethods)
		if err != nil {
			return nil, err
		}
		return store.LoadPaymentMethodsSuccess{Payload: v}, nil
	case store.LoadPaymentStatus:
		v, err := readArg(ctx, e, e.api.PaymentStatus, a.TransactionID)
		if err != nil {
			return nil, err
		}
		return store.LoadPaymentStatusSuccess{Payload: v}, nil
	case store.LoadInvoices:
		v, err := readArg(ctx, e, e.api.Invoices, a.UserID)
		if err != nil {
			return nil, err
		}
		return store.LoadInvoicesSuccess{Payload: v}, nil
	case store.GenerateInvoice:
		v, err := e.api.GenerateInvoice(ctx, a.UserID)
		if err != nil {
			return nil, err
		}
		return store.GenerateInvoiceSuccess{Payload: v}, nil
	case store.LoadUserDetails:
		v, err := read(ctx, e, e.api.UserDetails)
		if err != nil {
			return nil, err
		}
		return store.LoadUserDetailsSuccess{Payload: v}, nil
	case store.LoadSubscriptions:
		v, err := read(ctx, e, e.api.Subscriptions)
		if err != nil {
			return nil, err
		}
		return store.LoadSubscriptionsSuccess{Payload: v}, nil
	case store.LoadSubscriptionPlans:
		v, err := read(ctx, e, e.api.SubscriptionPlans)
		if err != nil {
			return nil, err
		}
		return store.LoadSubscriptionPlansSuccess{Payload: v}, nil
	case store.Subscribe:
		v, err := e.api.Subscribe(ctx, a.PlanID, a.UserID)
		if err != nil {
			return nil, err
		}
		return store.SubscribeSuccess{Payload: v}, nil
	case store.CancelSubscription:
		v, err := e.api.CancelSubscription(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		return store.CancelSubscriptionSuccess{Payload: v}, nil
	case store.LoadSubscriptionStatus:
		v, err := readArg(ctx, e, e.api.SubscriptionStatus, a.UserID)
		if err != nil {
			return nil, err
		}
		return store.LoadSubscriptionStatusSuccess{Payload: v}, nil
	default:
		return nil, fmt.Errorf("effects.handle: unsupported request %q", req.Type())
	}
}

// failureFor строит действие ошибки для запроса. Для неизвестного запроса
// возвращает nil: store игнорирует nil-действия.
func failureFor(req store.RequestAction, msg string) store.Action {
	switch req.(type) {
	case store.LoadPaymentHistory:
		return store.LoadPaymentHistoryFailure{Payload: msg}
	case store.LoadPayment:
		return store.LoadPaymentFailure{Payload: msg}
	case store.ProcessPayment:
		return store.ProcessPaymentFailure{Payload: msg}
	case store.CreatePayment:
		return store.CreatePaymentFailure{Payload: msg}
	case store.LoadRefundStatus:
		return store.LoadRefundStatusFailure{Payload: msg}
	case store.LoadCurrencies:
		return store.LoadCurrenciesFailure{Payload: msg}
	case store.RefundPayment:
		return store.RefundPaymentFailure{Payload: msg}
	case store.RetryInvoicePayment:
		return store.RetryInvoicePaymentFailure{Payload: msg}
	case store.LoadPaymentMethods:
		return store.LoadPaymentMethodsFailure{Payload: msg}
	case store.LoadPaymentStatus:
		return store.LoadPaymentStatusFailure{Payload: msg}
	case store.LoadInvoices:
		return store.LoadInvoicesFailure{Payload: msg}
	case store.GenerateInvoice:
		return store.GenerateInvoiceFailure{Payload: msg}
	case store.LoadUserDetails:
		return store.LoadUserDetailsFailure{Payload: msg}
	case store.LoadSubscriptions:
		return store.LoadSubscriptionsFailure{Payload: msg}
	case store.LoadSubscriptionPlans:
		return store.LoadSubscriptionPlansFailure{Payload: msg}
	case store.Subscribe:
		return store.SubscribeFailure{Payload: msg}
	case store.CancelSubscription:
		return store.CancelSubscriptionFailure{Payload: msg}
	case store.LoadSubscriptionStatus:
		return store.LoadSubscriptionStatusFailure{Payload: msg}
	default:
		return nil
	}
}
