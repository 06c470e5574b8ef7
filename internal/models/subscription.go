package models

import "github.com/shopspring/decimal"

// SubscriptionStatus статус подписки.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionTrialing SubscriptionStatus = "trialing"
)

// Subscription подписка пользователя на тарифный план.
// Даты хранятся строками в том виде, в котором их отдаёт API.
type Subscription struct {
	ID        string             `json:"id"`
	Plan      string             `json:"plan"`
	Status    SubscriptionStatus `json:"status"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
}

// Plan тарифный план, на который можно оформить подписку.
type Plan struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Interval string          `json:"interval"` // month или year
}
