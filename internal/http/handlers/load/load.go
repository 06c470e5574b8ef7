// Package load реализует HTTP-обработчик, который запускает загрузку среза состояния.
//
// Обработчик только отправляет запрос-действие в store и сразу отвечает 202:
// результат появится в состоянии, когда эффект получит ответ платёжного API.
package load

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-console/internal/http/response"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// Dispatcher принимает действия для store.
type Dispatcher interface {
	Dispatch(action store.Action)
}

// actions сопоставляет имя среза из URL с действием загрузки.
var actions = map[string]func() store.Action{
	"payments":        func() store.Action { return store.LoadPaymentHistory{} },
	"payment-methods": func() store.Action { return store.LoadPaymentMethods{} },
	"currencies":      func() store.Action { return store.LoadCurrencies{} },
	"user":            func() store.Action { return store.LoadUserDetails{} },
	"subscriptions":   func() store.Action { return store.LoadSubscriptions{} },
	"plans":           func() store.Action { return store.LoadSubscriptionPlans{} },
}

type Handler struct {
	log   *slog.Logger
	store Dispatcher
}

func New(log *slog.Logger, st Dispatcher) *Handler {
	return &Handler{
		log:   log,
		store: st,
	}
}

// ServeHTTP обрабатывает POST /load/{slice}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.load"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slice := chi.URLParam(r, "slice")
	newAction, ok := actions[slice]
	if !ok {
		log.Warn("unknown slice", slog.String("slice", slice))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown slice"))
		return
	}

	action := newAction()
	h.store.Dispatch(action)
	log.Info("load dispatched", slog.String("slice", slice))

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"action": action.Type(),
	}))
}
