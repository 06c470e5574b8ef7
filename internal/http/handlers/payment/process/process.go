// Package process принимает платёжную форму, проверяет её и запускает проведение платежа.
//
// Handler декодирует BillingForm, прогоняет её через платёжные правила валидатора
// и при успехе отправляет в store действие ProcessPayment. Ответ 202 означает,
// что запрос принят; итог платежа появится в срезе платежей.
package process

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-console/internal/http/response"
	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
	"github.com/magabrotheeeer/billing-console/internal/lib/validate"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// Dispatcher принимает действия для store.
type Dispatcher interface {
	Dispatch(action store.Action)
}

// Handler обрабатывает отправку платёжной формы.
type Handler struct {
	log      *slog.Logger
	store    Dispatcher
	validate *validator.Validate
}

// New создаёт Handler с валидатором платёжной формы.
func New(log *slog.Logger, st Dispatcher) *Handler {
	return &Handler{
		log:      log,
		store:    st,
		validate: validate.NewFormValidator(),
	}
}

// ServeHTTP обрабатывает POST /payments/process.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.process"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var form validate.BillingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validator failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
			return
		}
		log.Info("billing form rejected", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	action := store.ProcessPayment{
		MethodID: form.PaymentMethod,
		Amount:   decimal.NewFromFloat(form.Amount),
	}
	h.store.Dispatch(action)
	log.Info("payment dispatched", slog.String("method", form.PaymentMethod))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"action": action.Type(),
	}))
}
