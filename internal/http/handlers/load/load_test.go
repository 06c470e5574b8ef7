package load

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-console/internal/store"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(action store.Action) {
	m.Called(action)
}

func TestLoadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		slice          string
		action         store.Action
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "история платежей",
			slice:          "payments",
			action:         store.LoadPaymentHistory{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"status":"OK","data":{"action":"[Payment] Load Payment History"}}`,
		},
		{
			name:           "способы оплаты",
			slice:          "payment-methods",
			action:         store.LoadPaymentMethods{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"status":"OK","data":{"action":"[Payment] Load Payment Methods"}}`,
		},
		{
			name:           "пользователь",
			slice:          "user",
			action:         store.LoadUserDetails{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"status":"OK","data":{"action":"[User] Load User Details"}}`,
		},
		{
			name:           "подписки",
			slice:          "subscriptions",
			action:         store.LoadSubscriptions{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"status":"OK","data":{"action":"[Subscription] Load Subscriptions"}}`,
		},
		{
			name:           "валюты",
			slice:          "currencies",
			action:         store.LoadCurrencies{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"status":"OK","data":{"action":"[Payment] Load Currencies"}}`,
		},
		{
			name:           "тарифные планы",
			slice:          "plans",
			action:         store.LoadSubscriptionPlans{},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `{"status":"OK","data":{"action":"[Subscription] Load Subscription Plans"}}`,
		},
		{
			name:           "неизвестный срез",
			slice:          "ledger",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"unknown slice"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := new(MockDispatcher)
			if tt.action != nil {
				d.On("Dispatch", tt.action).Return().Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/load/"+tt.slice, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slice", tt.slice)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, d).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			d.AssertExpectations(t)
			if tt.action == nil {
				d.AssertNotCalled(t, "Dispatch", mock.Anything)
			}
		})
	}
}
