// Package models содержит доменные структуры биллинговой консоли: платежи,
// платёжные методы, счета, возвраты, подписки и данные пользователя.
// Структуры приходят из удалённого платёжного API и хранятся в состоянии store.
package models

import "github.com/shopspring/decimal"

// PaymentStatus статус платежа в платёжном API.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentCompleted     PaymentStatus = "completed"
	PaymentFailed        PaymentStatus = "failed"
	PaymentRefundPending PaymentStatus = "refund_pending"
	PaymentRefunded      PaymentStatus = "refunded"
)

// Payment представляет одну платёжную транзакцию.
type Payment struct {
	ID     string          `json:"id"`     // Уникальный идентификатор транзакции
	Amount decimal.Decimal `json:"amount"` // Сумма платежа
	Date   string          `json:"date"`   // Дата проведения в формате API
	Status PaymentStatus   `json:"status"` // Текущий статус
	Method string          `json:"method"` // Идентификатор платёжного метода
}

// PaymentMethod описывает доступный пользователю способ оплаты.
type PaymentMethod struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// StatusReport ответ на запрос статуса конкретной транзакции.
type StatusReport struct {
	TransactionID string        `json:"transaction_id"`
	Status        PaymentStatus `json:"status"`
}

// Refund описывает возврат по платежу.
type Refund struct {
	ID        string          `json:"id"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}
