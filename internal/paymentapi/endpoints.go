package paymentapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-console/internal/models"
)

const (
	pathTransactions = "/transactions"
	pathMethods      = "/methods"
	pathCurrencies   = "/currencies"
	pathPlans        = "/subscriptions/plans"
)

// CreatePaymentRequest тело запроса на создание платежа.
type CreatePaymentRequest struct {
	MethodID    string          `json:"method_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description,omitempty"`
}

type processRequest struct {
	MethodID string      `json:"method_id"`
	Amount   json.Number `json:"amount"`
}

type subscribeRequest struct {
	PlanID string `json:"plan_id"`
	UserID string `json:"user_id"`
}

// Transactions список транзакций пользователя.
func (c *Client) Transactions(ctx context.Context) ([]models.Payment, error) {
	return cached[[]models.Payment](ctx, c, "paymentapi.Transactions", pathTransactions)
}

// Transaction одна транзакция по идентификатору.
func (c *Client) Transaction(ctx context.Context, id string) (models.Payment, error) {
	return call[models.Payment](ctx, c, "paymentapi.Transaction", http.MethodGet, pathTransactions+"/"+url.PathEscape(id), nil)
}

// CreatePayment создаёт платёж с валютой и описанием.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (models.Payment, error) {
	p, err := call[models.Payment](ctx, c, "paymentapi.CreatePayment", http.MethodPost, "/create", req)
	if err == nil {
		c.invalidate(ctx, pathTransactions)
	}
	return p, err
}

// ProcessPayment проводит платёж выбранным методом.
func (c *Client) ProcessPayment(ctx context.Context, methodID string, amount decimal.Decimal) (models.Payment, error) {
	body := processRequest{MethodID: methodID, Amount: json.Number(amount.String())}
	p, err := call[models.Payment](ctx, c, "paymentapi.ProcessPayment", http.MethodPost, "/process", body)
	if err == nil {
		c.invalidate(ctx, pathTransactions)
	}
	return p, err
}

func (c *Client) RefundPayment(ctx context.Context, paymentID string) (models.Refund, error) {
	r, err := call[models.Refund](ctx, c, "paymentapi.RefundPayment", http.MethodPost, "/refund/"+url.PathEscape(paymentID), nil)
	if err == nil {
		c.invalidate(ctx, pathTransactions)
	}
	return r, err
}

// RefundStatus текущее состояние возврата по его идентификатору.
func (c *Client) RefundStatus(ctx context.Context, refundID string) (models.Refund, error) {
	return call[models.Refund](ctx, c, "paymentapi.RefundStatus", http.MethodGet, "/refund/status/"+url.PathEscape(refundID), nil)
}

func (c *Client) PaymentStatus(ctx context.Context, transactionID string) (models.StatusReport, error) {
	return call[models.StatusReport](ctx, c, "paymentapi.PaymentStatus", http.MethodGet, "/status/"+url.PathEscape(transactionID), nil)
}

func (c *Client) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return cached[[]models.PaymentMethod](ctx, c, "paymentapi.PaymentMethods", pathMethods)
}

// Currencies коды валют, в которых API принимает платежи.
func (c *Client) Currencies(ctx context.Context) ([]string, error) {
	return cached[[]string](ctx, c, "paymentapi.Currencies", pathCurrencies)
}

func (c *Client) SubscriptionPlans(ctx context.Context) ([]models.Plan, error) {
	return cached[[]models.Plan](ctx, c, "paymentapi.SubscriptionPlans", pathPlans)
}

func (c *Client) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	return call[[]models.Subscription](ctx, c, "paymentapi.Subscriptions", http.MethodGet, "/subscriptions", nil)
}

func (c *Client) Subscribe(ctx context.Context, planID, userID string) (models.Subscription, error) {
	body := subscribeRequest{PlanID: planID, UserID: userID}
	return call[models.Subscription](ctx, c, "paymentapi.Subscribe", http.MethodPost, "/subscriptions/subscribe", body)
}

func (c *Client) CancelSubscription(ctx context.Context, id string) (models.Subscription, error) {
	return call[models.Subscription](ctx, c, "paymentapi.CancelSubscription", http.MethodPost, "/subscriptions/cancel/"+url.PathEscape(id), nil)
}

func (c *Client) SubscriptionStatus(ctx context.Context, userID string) (models.Subscription, error) {
	return call[models.Subscription](ctx, c, "paymentapi.SubscriptionStatus", http.MethodGet, "/subscriptions/status/"+url.PathEscape(userID), nil)
}

// UserDetails данные текущего пользователя (владельца токена).
func (c *Client) UserDetails(ctx context.Context) (models.UserDetails, error) {
	return call[models.UserDetails](ctx, c, "paymentapi.UserDetails", http.MethodGet, "/users/me", nil)
}

func (c *Client) Invoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	return call[[]models.Invoice](ctx, c, "paymentapi.Invoices", http.MethodGet, "/invoices/"+url.PathEscape(userID), nil)
}

func (c *Client) GenerateInvoice(ctx context.Context, userID string) (models.Invoice, error) {
	return call[models.Invoice](ctx, c, "paymentapi.GenerateInvoice", http.MethodPost, "/invoices/generate/"+url.PathEscape(userID), nil)
}

// RetryInvoicePayment повторяет оплату неоплаченного счёта.
func (c *Client) RetryInvoicePayment(ctx context.Context, invoiceID string) (models.Payment, error) {
	p, err := call[models.Payment](ctx, c, "paymentapi.RetryInvoicePayment", http.MethodPost, "/invoices/retry/"+url.PathEscape(invoiceID), nil)
	if err == nil {
		c.invalidate(ctx, pathTransactions)
	}
	return p, err
}
