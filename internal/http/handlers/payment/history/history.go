// Package history отдаёт срез платежей через селекторы store: историю,
// флаг загрузки, последнюю ошибку и выручку по завершённым платежам.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-console/internal/http/response"
	"github.com/magabrotheeeer/billing-console/internal/lib/currency"
	"github.com/magabrotheeeer/billing-console/internal/models"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// StateReader отдаёт текущее состояние store.
type StateReader interface {
	State() *store.AppState
}

// View ответ GET /payments.
type View struct {
	PaymentHistory   []models.Payment `json:"payment_history"`
	Loading          bool             `json:"loading"`
	Error            string           `json:"error"`
	Revenue          string           `json:"revenue"`
	RevenueFormatted string           `json:"revenue_formatted"`
	// Page заполнен, только если запрошены sort, order, page или size.
	Page *store.HistoryPage `json:"page,omitempty"`
}

type Handler struct {
	log   *slog.Logger
	store StateReader
}

func New(log *slog.Logger, st StateReader) *Handler {
	return &Handler{
		log:   log,
		store: st,
	}
}

// ServeHTTP обрабатывает GET /payments?currency=USD&locale=en-US&sort=amount&order=desc&page=1&size=10.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := currency.USD
	if c := r.URL.Query().Get("currency"); c != "" {
		code = currency.Code(strings.ToUpper(c))
	}
	if !currency.IsSupported(code) {
		log.Warn("unsupported currency", slog.String("currency", string(code)))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unsupported currency"))
		return
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = currency.DefaultLocale
	}

	query, paged, err := parseHistoryQuery(r)
	if err != nil {
		log.Warn("invalid history query", slog.String("query", r.URL.RawQuery))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	state := h.store.State()
	revenue := store.SelectCompletedRevenue(state)
	amount, _ := revenue.Float64()

	view := View{
		PaymentHistory:   store.SelectPaymentHistory(state),
		Loading:          store.SelectPaymentLoading(state),
		Error:            store.SelectPaymentError(state),
		Revenue:          revenue.StringFixed(2),
		RevenueFormatted: currency.Format(amount, code, currency.WithLocale(locale)),
	}
	if paged {
		page := store.PageHistory(view.PaymentHistory, query)
		view.Page = &page
	}
	render.JSON(w, r, response.OKWithData(view))
}

func parseHistoryQuery(r *http.Request) (store.HistoryQuery, bool, error) {
	q := r.URL.Query()
	var query store.HistoryQuery
	paged := false

	if v := q.Get("sort"); v != "" {
		paged = true
		switch f := store.HistorySortField(strings.ToLower(v)); f {
		case store.SortByDate, store.SortByAmount, store.SortByStatus:
			query.SortField = f
		default:
			return query, false, errors.New("unsupported sort field")
		}
	}
	if v := q.Get("order"); v != "" {
		paged = true
		switch strings.ToLower(v) {
		case "asc":
		case "desc":
			query.Desc = true
		default:
			return query, false, errors.New("order must be asc or desc")
		}
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &query.Page}, {"size", &query.PageSize}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		paged = true
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return query, false, fmt.Errorf("%s must be a positive integer", p.name)
		}
		*p.dst = n
	}
	return query, paged, nil
}
