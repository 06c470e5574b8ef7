package store

import (
	"slices"
	"strings"

	"github.com/magabrotheeeer/billing-console/internal/models"
)

// HistorySortField поле сортировки истории платежей.
type HistorySortField string

const (
	SortByDate   HistorySortField = "date"
	SortByAmount HistorySortField = "amount"
	SortByStatus HistorySortField = "status"
)

const DefaultHistoryPageSize = 10

// HistoryQuery параметры страницы истории. Страницы нумеруются с 1.
type HistoryQuery struct {
	SortField HistorySortField
	Desc      bool
	Page      int
	PageSize  int
}

// HistoryPage одна страница отсортированной истории.
type HistoryPage struct {
	Items      []models.Payment `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

func (q HistoryQuery) normalize() HistoryQuery {
	switch q.SortField {
	case SortByDate, SortByAmount, SortByStatus:
	default:
		q.SortField = SortByDate
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultHistoryPageSize
	}
	return q
}

// SelectHistoryPage строит мемоизированный селектор страницы истории для q.
// Селектор пересчитывается только при смене среза платежей, поэтому его
// стоит создавать один раз на запрос и переиспользовать.
func SelectHistoryPage(q HistoryQuery) Selector[HistoryPage] {
	q = q.normalize()
	return CreateSelector(SelectPaymentState, func(s *PaymentState) HistoryPage {
		return PageHistory(s.PaymentHistory, q)
	})
}

// PageHistory сортирует копию history и вырезает из неё страницу q.
// Страница за пределами истории пустая, а не ошибочная.
func PageHistory(history []models.Payment, q HistoryQuery) HistoryPage {
	q = q.normalize()

	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b models.Payment) int {
		c := comparePayments(a, b, q.SortField)
		if q.Desc {
			return -c
		}
		return c
	})

	total := len(sorted)
	page := HistoryPage{
		Items:      []models.Payment{},
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalItems: total,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
	}

	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return page
	}
	end := min(start+q.PageSize, total)
	page.Items = sorted[start:end]
	return page
}

// comparePayments сравнивает по полю f. Даты API в ISO 8601 и сравниваются как строки.
func comparePayments(a, b models.Payment, f HistorySortField) int {
	switch f {
	case SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		return strings.Compare(a.Date, b.Date)
	}
}
