// Package store реализует однонаправленный контейнер состояния биллинговой консоли.
//
// Действия (Action) описывают намерение или результат, редьюсеры вычисляют новое
// неизменяемое состояние из старого, селекторы строят производные представления.
// Состояние никогда не изменяется на месте: каждый переход создаёт новую копию
// затронутого среза, незатронутые срезы переиспользуются по указателю.
package store

import "github.com/magabrotheeeer/billing-console/internal/models"

// AppState корень дерева состояния.
type AppState struct {
	Payment      *PaymentState      `json:"payment"`
	User         *UserState         `json:"user"`
	Subscription *SubscriptionState `json:"subscription"`
}

// PaymentState срез состояния платежей.
// Error пустой, если ошибки нет.
type PaymentState struct {
	PaymentHistory  []models.Payment       `json:"payment_history"`
	SelectedPayment *models.Payment        `json:"selected_payment"`
	PaymentMethods  []models.PaymentMethod `json:"payment_methods"`
	LastStatus      *models.StatusReport   `json:"last_status"`
	LastRefund      *models.Refund         `json:"last_refund"`
	Invoices        []models.Invoice       `json:"invoices"`
	Currencies      []string               `json:"currencies"`
	Loading         bool                   `json:"loading"`
	Error           string                 `json:"error,omitempty"`

	pending int
}

// UserState срез состояния пользователя.
type UserState struct {
	UserDetails *models.UserDetails `json:"user_details"`
	IsLoggedIn  bool                `json:"is_logged_in"`
	Loading     bool                `json:"loading"`
	Error       string              `json:"error,omitempty"`

	pending int
}

// SubscriptionState срез состояния подписок.
type SubscriptionState struct {
	Subscriptions      []models.Subscription `json:"subscriptions"`
	ActiveSubscription *models.Subscription  `json:"active_subscription"`
	Plans              []models.Plan         `json:"plans"`
	Loading            bool                  `json:"loading"`
	Error              string                `json:"error,omitempty"`

	pending int
}

// InitialPaymentState возвращает начальное состояние среза платежей.
func InitialPaymentState() *PaymentState {
	return &PaymentState{
		PaymentHistory: []models.Payment{},
		PaymentMethods: []models.PaymentMethod{},
		Invoices:       []models.Invoice{},
		Currencies:     []string{},
	}
}

// InitialUserState возвращает начальное состояние среза пользователя.
func InitialUserState() *UserState {
	return &UserState{}
}

// InitialSubscriptionState возвращает начальное состояние среза подписок.
func InitialSubscriptionState() *SubscriptionState {
	return &SubscriptionState{
		Subscriptions: []models.Subscription{},
		Plans:         []models.Plan{},
	}
}

// InitialState собирает начальное дерево состояния приложения.
func InitialState() *AppState {
	return &AppState{
		Payment:      InitialPaymentState(),
		User:         InitialUserState(),
		Subscription: InitialSubscriptionState(),
	}
}

const unknownError = "unknown error"

func failureMessage(msg string) string {
	if msg == "" {
		return unknownError
	}
	return msg
}

func release(pending int) int {
	if pending > 0 {
		return pending - 1
	}
	return 0
}
