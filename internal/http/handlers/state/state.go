// Package state отдаёт разовый снимок всего дерева состояния.
package state

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-console/internal/http/response"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

// StateReader отдаёт текущее состояние store.
type StateReader interface {
	State() *store.AppState
}

// Snapshot тело ответа: полное состояние и сводка для дашборда.
type Snapshot struct {
	State    *store.AppState       `json:"state"`
	Overview store.BillingOverview `json:"overview"`
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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.state"
	st := h.store.State()
	h.log.Debug("state snapshot", slog.String("op", op), slog.Bool("loading", st.Payment.Loading || st.User.Loading || st.Subscription.Loading))

	render.JSON(w, r, response.OKWithData(Snapshot{
		State:    st,
		Overview: store.SelectBillingOverview(st),
	}))
}
