package store

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-console/internal/models"
)

// Selector чистое производное представление состояния.
type Selector[R any] func(*AppState) R

// CreateSelector строит мемоизированный селектор. Пока input возвращает то же
// значение (для срезов состояния это тот же указатель), project не вызывается
// повторно и возвращается ранее вычисленный результат.
func CreateSelector[I comparable, R any](input func(*AppState) I, project func(I) R) Selector[R] {
	var (
		mu     sync.Mutex
		has    bool
		last   I
		result R
	)
	return func(state *AppState) R {
		in := input(state)

		mu.Lock()
		defer mu.Unlock()
		if has && in == last {
			return result
		}
		result = project(in)
		last = in
		has = true
		return result
	}
}

// CreateSelector2 мемоизированный селектор от двух входов.
func CreateSelector2[I1, I2 comparable, R any](in1 func(*AppState) I1, in2 func(*AppState) I2, project func(I1, I2) R) Selector[R] {
	var (
		mu     sync.Mutex
		has    bool
		last1  I1
		last2  I2
		result R
	)
	return func(state *AppState) R {
		a, b := in1(state), in2(state)

		mu.Lock()
		defer mu.Unlock()
		if has && a == last1 && b == last2 {
			return result
		}
		result = project(a, b)
		last1, last2 = a, b
		has = true
		return result
	}
}

// Select читает значение селектора из текущего состояния store.
func Select[R any](s *Store, sel Selector[R]) R {
	return sel(s.State())
}

// SelectAppState разовое чтение всего состояния: одно значение, без подписки.
func SelectAppState(s *Store) *AppState {
	return s.State()
}

// Селекторы срезов.

// Пустые срезы для состояния без среза. Один указатель на всё время жизни,
// иначе мемоизированные селекторы пересчитывались бы на каждом вызове.
var (
	emptyPaymentState      = InitialPaymentState()
	emptyUserState         = InitialUserState()
	emptySubscriptionState = InitialSubscriptionState()
)

func SelectPaymentState(s *AppState) *PaymentState {
	if s == nil || s.Payment == nil {
		return emptyPaymentState
	}
	return s.Payment
}

func SelectUserState(s *AppState) *UserState {
	if s == nil || s.User == nil {
		return emptyUserState
	}
	return s.User
}

func SelectSubscriptionState(s *AppState) *SubscriptionState {
	if s == nil || s.Subscription == nil {
		return emptySubscriptionState
	}
	return s.Subscription
}

var (
	SelectPaymentHistory = CreateSelector(SelectPaymentState, func(s *PaymentState) []models.Payment {
		return s.PaymentHistory
	})
	SelectSelectedPayment = CreateSelector(SelectPaymentState, func(s *PaymentState) *models.Payment {
		return s.SelectedPayment
	})
	SelectPaymentMethods = CreateSelector(SelectPaymentState, func(s *PaymentState) []models.PaymentMethod {
		return s.PaymentMethods
	})
	SelectInvoices = CreateSelector(SelectPaymentState, func(s *PaymentState) []models.Invoice {
		return s.Invoices
	})
	SelectLastRefund = CreateSelector(SelectPaymentState, func(s *PaymentState) *models.Refund {
		return s.LastRefund
	})
	SelectAvailableCurrencies = CreateSelector(SelectPaymentState, func(s *PaymentState) []string {
		return s.Currencies
	})
	SelectPaymentLoading = CreateSelector(SelectPaymentState, func(s *PaymentState) bool {
		return s.Loading
	})
	SelectPaymentError = CreateSelector(SelectPaymentState, func(s *PaymentState) string {
		return s.Error
	})

	SelectUserDetails = CreateSelector(SelectUserState, func(s *UserState) *models.UserDetails {
		return s.UserDetails
	})
	SelectIsLoggedIn = CreateSelector(SelectUserState, func(s *UserState) bool {
		return s.IsLoggedIn
	})
	SelectUserLoading = CreateSelector(SelectUserState, func(s *UserState) bool {
		return s.Loading
	})
	SelectUserError = CreateSelector(SelectUserState, func(s *UserState) string {
		return s.Error
	})

	SelectSubscriptions = CreateSelector(SelectSubscriptionState, func(s *SubscriptionState) []models.Subscription {
		return s.Subscriptions
	})
	SelectActiveSubscription = CreateSelector(SelectSubscriptionState, func(s *SubscriptionState) *models.Subscription {
		return s.ActiveSubscription
	})
	SelectPlans = CreateSelector(SelectSubscriptionState, func(s *SubscriptionState) []models.Plan {
		return s.Plans
	})
	SelectSubscriptionLoading = CreateSelector(SelectSubscriptionState, func(s *SubscriptionState) bool {
		return s.Loading
	})
	SelectSubscriptionError = CreateSelector(SelectSubscriptionState, func(s *SubscriptionState) string {
		return s.Error
	})

	// SelectCompletedRevenue сумма завершённых платежей.
	SelectCompletedRevenue = CreateSelector(SelectPaymentState, CompletedRevenue)

	// SelectBillingOverview сводка для дашборда.
	SelectBillingOverview = CreateSelector2(SelectPaymentState, SelectSubscriptionState, NewBillingOverview)
)

// CompletedRevenue суммирует платежи в статусе completed.
func CompletedRevenue(s *PaymentState) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.PaymentHistory {
		if p.Status == models.PaymentCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// BillingOverview сводка по платежам и подпискам.
type BillingOverview struct {
	Revenue            decimal.Decimal      `json:"revenue"`
	TotalPayments      int                  `json:"total_payments"`
	FailedPayments     int                  `json:"failed_payments"`
	ActiveSubscription *models.Subscription `json:"active_subscription"`
	Loading            bool                 `json:"loading"`
}

// NewBillingOverview проецирует срезы платежей и подписок в BillingOverview.
func NewBillingOverview(p *PaymentState, s *SubscriptionState) BillingOverview {
	failed := 0
	for _, pay := range p.PaymentHistory {
		if pay.Status == models.PaymentFailed {
			failed++
		}
	}
	return BillingOverview{
		Revenue:            CompletedRevenue(p),
		TotalPayments:      len(p.PaymentHistory),
		FailedPayments:     failed,
		ActiveSubscription: s.ActiveSubscription,
		Loading:            p.Loading || s.Loading,
	}
}
