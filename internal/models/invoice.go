package models

import "github.com/shopspring/decimal"

// Invoice счёт, выставленный пользователю.
type Invoice struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	IssuedAt string          `json:"issued_at"`
}
