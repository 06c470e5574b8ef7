package store

import (
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-console/internal/models"
)

// ActionType дискриминатор действия.
type ActionType string

// Action неизменяемая запись о намерении или результате.
type Action interface {
	Type() ActionType
}

// RequestAction действие-запрос, на которое эффекты отвечают ровно одним
// терминальным действием (успех или ошибка).
type RequestAction interface {
	Action
	request()
}

const (
	LoadPaymentHistoryType        ActionType = "[Payment] Load Payment History"
	LoadPaymentHistorySuccessType ActionType = "[Payment] Load Payment History Success"
	LoadPaymentHistoryFailureType ActionType = "[Payment] Load Payment History Failure"

	LoadPaymentType        ActionType = "[Payment] Load Payment"
	LoadPaymentSuccessType ActionType = "[Payment] Load Payment Success"
	LoadPaymentFailureType ActionType = "[Payment] Load Payment Failure"

	ProcessPaymentType        ActionType = "[Payment] Process Payment"
	ProcessPaymentSuccessType ActionType = "[Payment] Process Payment Success"
	ProcessPaymentFailureType ActionType = "[Payment] Process Payment Failure"

	RefundPaymentType        ActionType = "[Payment] Refund Payment"
	RefundPaymentSuccessType ActionType = "[Payment] Refund Payment Success"
	RefundPaymentFailureType ActionType = "[Payment] Refund Payment Failure"

	RetryInvoicePaymentType        ActionType = "[Payment] Retry Payment"
	RetryInvoicePaymentSuccessType ActionType = "[Payment] Retry Payment Success"
	RetryInvoicePaymentFailureType ActionType = "[Payment] Retry Payment Failure"

	LoadPaymentMethodsType        ActionType = "[Payment] Load Payment Methods"
	LoadPaymentMethodsSuccessType ActionType = "[Payment] Load Payment Methods Success"
	LoadPaymentMethodsFailureType ActionType = "[Payment] Load Payment Methods Failure"

	LoadPaymentStatusType        ActionType = "[Payment] Load Payment Status"
	LoadPaymentStatusSuccessType ActionType = "[Payment] Load Payment Status Success"
	LoadPaymentStatusFailureType ActionType = "[Payment] Load Payment Status Failure"

	LoadInvoicesType        ActionType = "[Payment] Load Invoices"
	LoadInvoicesSuccessType ActionType = "[Payment] Load Invoices Success"
	LoadInvoicesFailureType ActionType = "[Payment] Load Invoices Failure"

	GenerateInvoiceType        ActionType = "[Payment] Generate Invoice"
	GenerateInvoiceSuccessType ActionType = "[Payment] Generate Invoice Success"
	GenerateInvoiceFailureType ActionType = "[Payment] Generate Invoice Failure"

	CreatePaymentType        ActionType = "[Payment] Create Payment"
	CreatePaymentSuccessType ActionType = "[Payment] Create Payment Success"
	CreatePaymentFailureType ActionType = "[Payment] Create Payment Failure"

	LoadRefundStatusType        ActionType = "[Payment] Load Refund Status"
	LoadRefundStatusSuccessType ActionType = "[Payment] Load Refund Status Success"
	LoadRefundStatusFailureType ActionType = "[Payment] Load Refund Status Failure"

	LoadCurrenciesType        ActionType = "[Payment] Load Currencies"
	LoadCurrenciesSuccessType ActionType = "[Payment] Load Currencies Success"
	LoadCurrenciesFailureType ActionType = "[Payment] Load Currencies Failure"

	ResetPaymentStateType ActionType = "[Payment] Reset Payment State"
)

// PaymentAction закрытое множество действий среза платежей.
type PaymentAction interface {
	Action
	paymentAction()
}

type paymentMarker struct{}

func (paymentMarker) paymentAction() {}

type requestMarker struct{}

func (requestMarker) request() {}

// LoadPaymentHistory запрашивает историю платежей.
type LoadPaymentHistory struct {
	paymentMarker
	requestMarker
}

// LoadPaymentHistorySuccess несёт загруженную историю.
type LoadPaymentHistorySuccess struct {
	paymentMarker
	Payload []models.Payment
}

// LoadPaymentHistoryFailure несёт текст ошибки.
type LoadPaymentHistoryFailure struct {
	paymentMarker
	Payload string
}

func (LoadPaymentHistory) Type() ActionType        { return LoadPaymentHistoryType }
func (LoadPaymentHistorySuccess) Type() ActionType { return LoadPaymentHistorySuccessType }
func (LoadPaymentHistoryFailure) Type() ActionType { return LoadPaymentHistoryFailureType }

// LoadPayment запрашивает одну транзакцию; результат становится SelectedPayment.
type LoadPayment struct {
	paymentMarker
	requestMarker
	ID string
}

type LoadPaymentSuccess struct {
	paymentMarker
	Payload models.Payment
}

type LoadPaymentFailure struct {
	paymentMarker
	Payload string
}

func (LoadPayment) Type() ActionType        { return LoadPaymentType }
func (LoadPaymentSuccess) Type() ActionType { return LoadPaymentSuccessType }
func (LoadPaymentFailure) Type() ActionType { return LoadPaymentFailureType }

// ProcessPayment проводит платёж выбранным методом.
type ProcessPayment struct {
	paymentMarker
	requestMarker
	MethodID string
	Amount   decimal.Decimal
}

type ProcessPaymentSuccess struct {
	paymentMarker
	Payload models.Payment
}

type ProcessPaymentFailure struct {
	paymentMarker
	Payload string
}

func (ProcessPayment) Type() ActionType        { return ProcessPaymentType }
func (ProcessPaymentSuccess) Type() ActionType { return ProcessPaymentSuccessType }
func (ProcessPaymentFailure) Type() ActionType { return ProcessPaymentFailureType }

// RefundPayment запрашивает возврат по платежу.
type RefundPayment struct {
	paymentMarker
	requestMarker
	PaymentID string
}

type RefundPaymentSuccess struct {
	paymentMarker
	Payload models.Refund
}

type RefundPaymentFailure struct {
	paymentMarker
	Payload string
}

func (RefundPayment) Type() ActionType        { return RefundPaymentType }
func (RefundPaymentSuccess) Type() ActionType { return RefundPaymentSuccessType }
func (RefundPaymentFailure) Type() ActionType { return RefundPaymentFailureType }

// RetryInvoicePayment повторяет неуспешную оплату счёта.
type RetryInvoicePayment struct {
	paymentMarker
	requestMarker
	InvoiceID string
}

type RetryInvoicePaymentSuccess struct {
	paymentMarker
	Payload models.Payment
}

type RetryInvoicePaymentFailure struct {
	paymentMarker
	Payload string
}

func (RetryInvoicePayment) Type() ActionType        { return RetryInvoicePaymentType }
func (RetryInvoicePaymentSuccess) Type() ActionType { return RetryInvoicePaymentSuccessType }
func (RetryInvoicePaymentFailure) Type() ActionType { return RetryInvoicePaymentFailureType }

// LoadPaymentMethods запрашивает доступные способы оплаты.
type LoadPaymentMethods struct {
	paymentMarker
	requestMarker
}

type LoadPaymentMethodsSuccess struct {
	paymentMarker
	Payload []models.PaymentMethod
}

type LoadPaymentMethodsFailure struct {
	paymentMarker
	Payload string
}

func (LoadPaymentMethods) Type() ActionType        { return LoadPaymentMethodsType }
func (LoadPaymentMethodsSuccess) Type() ActionType { return LoadPaymentMethodsSuccessType }
func (LoadPaymentMethodsFailure) Type() ActionType { return LoadPaymentMethodsFailureType }

// LoadPaymentStatus запрашивает статус транзакции.
type LoadPaymentStatus struct {
	paymentMarker
	requestMarker
	TransactionID string
}

type LoadPaymentStatusSuccess struct {
	paymentMarker
	Payload models.StatusReport
}

type LoadPaymentStatusFailure struct {
	paymentMarker
	Payload string
}

func (LoadPaymentStatus) Type() ActionType        { return LoadPaymentStatusType }
func (LoadPaymentStatusSuccess) Type() ActionType { return LoadPaymentStatusSuccessType }
func (LoadPaymentStatusFailure) Type() ActionType { return LoadPaymentStatusFailureType }

// LoadInvoices запрашивает счета пользователя.
type LoadInvoices struct {
	paymentMarker
	requestMarker
	UserID string
}

type LoadInvoicesSuccess struct {
	paymentMarker
	Payload []models.Invoice
}

type LoadInvoicesFailure struct {
	paymentMarker
	Payload string
}

func (LoadInvoices) Type() ActionType        { return LoadInvoicesType }
func (LoadInvoicesSuccess) Type() ActionType { return LoadInvoicesSuccessType }
func (LoadInvoicesFailure) Type() ActionType { return LoadInvoicesFailureType }

// GenerateInvoice выставляет новый счёт пользователю.
type GenerateInvoice struct {
	paymentMarker
	requestMarker
	UserID string
}

type GenerateInvoiceSuccess struct {
	paymentMarker
	Payload models.Invoice
}

type GenerateInvoiceFailure struct {
	paymentMarker
	Payload string
}

func (GenerateInvoice) Type() ActionType        { return GenerateInvoiceType }
func (GenerateInvoiceSuccess) Type() ActionType { return GenerateInvoiceSuccessType }
func (GenerateInvoiceFailure) Type() ActionType { return GenerateInvoiceFailureType }

// CreatePayment создаёт платёж с указанием валюты и описания.
// В отличие от ProcessPayment сумма трактуется в Currency, а не в валюте метода.
type CreatePayment struct {
	paymentMarker
	requestMarker
	MethodID    string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

type CreatePaymentSuccess struct {
	paymentMarker
	Payload models.Payment
}

type CreatePaymentFailure struct {
	paymentMarker
	Payload string
}

func (CreatePayment) Type() ActionType        { return CreatePaymentType }
func (CreatePaymentSuccess) Type() ActionType { return CreatePaymentSuccessType }
func (CreatePaymentFailure) Type() ActionType { return CreatePaymentFailureType }

// LoadRefundStatus запрашивает состояние возврата; результат становится LastRefund.
type LoadRefundStatus struct {
	paymentMarker
	requestMarker
	RefundID string
}

type LoadRefundStatusSuccess struct {
	paymentMarker
	Payload models.Refund
}

type LoadRefundStatusFailure struct {
	paymentMarker
	Payload string
}

func (LoadRefundStatus) Type() ActionType        { return LoadRefundStatusType }
func (LoadRefundStatusSuccess) Type() ActionType { return LoadRefundStatusSuccessType }
func (LoadRefundStatusFailure) Type() ActionType { return LoadRefundStatusFailureType }

// LoadCurrencies запрашивает валюты, доступные для оплаты.
type LoadCurrencies struct {
	paymentMarker
	requestMarker
}

type LoadCurrenciesSuccess struct {
	paymentMarker
	Payload []string
}

type LoadCurrenciesFailure struct {
	paymentMarker
	Payload string
}

func (LoadCurrencies) Type() ActionType        { return LoadCurrenciesType }
func (LoadCurrenciesSuccess) Type() ActionType { return LoadCurrenciesSuccessType }
func (LoadCurrenciesFailure) Type() ActionType { return LoadCurrenciesFailureType }

// ResetPaymentState возвращает срез платежей в начальное состояние.
type ResetPaymentState struct {
	paymentMarker
}

func (ResetPaymentState) Type() ActionType { return ResetPaymentStateType }
