package state

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-console/internal/models"
	"github.com/magabrotheeeer/billing-console/internal/store"
)

func TestStateHandler_ReflectsDispatchedActions(t *testing.T) {
	st := store.New()
	st.Dispatch(store.LoadPaymentHistorySuccess{Payload: []models.Payment{
		{ID: "t1", Amount: decimal.NewFromInt(20), Status: models.PaymentCompleted},
		{ID: "t2", Amount: decimal.NewFromInt(5), Status: models.PaymentFailed},
	}})
	st.Dispatch(store.LoadUserDetailsSuccess{Payload: models.UserDetails{ID: "u1", Email: "jane@example.com"}})

	w := httptest.NewRecorder()
	New(slog.New(slog.DiscardHandler), st).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Status string `json:"status"`
		Data   struct {
			State struct {
				Payment struct {
					PaymentHistory []models.Payment `json:"payment_history"`
					Loading        bool             `json:"loading"`
				} `json:"payment"`
				User struct {
					IsLoggedIn  bool                `json:"is_logged_in"`
					UserDetails *models.UserDetails `json:"user_details"`
				} `json:"user"`
			} `json:"state"`
			Overview struct {
				Revenue        string `json:"revenue"`
				TotalPayments  int    `json:"total_payments"`
				FailedPayments int    `json:"failed_payments"`
			} `json:"overview"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, "OK", res.Status)
	assert.Len(t, res.Data.State.Payment.PaymentHistory, 2)
	assert.False(t, res.Data.State.Payment.Loading)
	assert.True(t, res.Data.State.User.IsLoggedIn)
	require.NotNil(t, res.Data.State.User.UserDetails)
	assert.Equal(t, "u1", res.Data.State.User.UserDetails.ID)
	assert.Equal(t, "20", res.Data.Overview.Revenue)
	assert.Equal(t, 2, res.Data.Overview.TotalPayments)
	assert.Equal(t, 1, res.Data.Overview.FailedPayments)
}
