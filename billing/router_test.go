package billing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogfusion/auth"
	"github.com/dmitrymomot/blogfusion/billing"
)

// stubAuth injects a fixed principal, standing in for the JWT middleware.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithPrincipal(r.Context(), auth.Principal{
			UserID: "user-1",
			Email:  "writer@example.com",
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TestRouter_Checkout(t *testing.T) {
	t.Parallel()

	t.Run("returns session for valid plan", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{}
		provider.On("CreateCheckout", mock.Anything, mock.Anything).
			Return(&billing.CheckoutSession{SessionID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil)

		checkout := billing.NewCheckoutService(provider, testBillingConfig(), nil)
		ingestor := billing.NewIngestor(provider, newFakePlanStore(), nil)
		router := billing.NewRouter(checkout, ingestor, provider, stubAuth)

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"plan":"medium"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data struct {
				SessionID string `json:"session_id"`
				URL       string `json:"url"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "cs_1", body.Data.SessionID)
		assert.Equal(t, "https://pay.example.com/cs_1", body.Data.URL)
	})

	t.Run("unknown plan returns 400", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{}
		checkout := billing.NewCheckoutService(provider, testBillingConfig(), nil)
		ingestor := billing.NewIngestor(provider, newFakePlanStore(), nil)
		router := billing.NewRouter(checkout, ingestor, provider, stubAuth)

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"plan":"enterprise"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown_plan")
	})

	t.Run("provider failure returns 502", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{}
		provider.On("CreateCheckout", mock.Anything, mock.Anything).
			Return(nil, billing.ErrProviderUnavailable)

		checkout := billing.NewCheckoutService(provider, testBillingConfig(), nil)
		ingestor := billing.NewIngestor(provider, newFakePlanStore(), nil)
		router := billing.NewRouter(checkout, ingestor, provider, stubAuth)

		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"plan":"medium"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRouter_Webhook(t *testing.T) {
	t.Parallel()

	t.Run("acknowledges valid webhook", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{}
		provider.On("ParseWebhook", mock.Anything, mock.Anything, "sig-ok").
			Return(&billing.Event{
				Type:   billing.EventCheckoutCompleted,
				UserID: "user-1",
				Plan:   "medium",
			}, nil)

		store := newFakePlanStore()
		checkout := billing.NewCheckoutService(provider, testBillingConfig(), nil)
		ingestor := billing.NewIngestor(provider, store, nil)
		router := billing.NewRouter(checkout, ingestor, provider, stubAuth)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
		req.Header.Set("Test-Signature", "sig-ok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"received":true`)
	})

	t.Run("invalid signature returns 400", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{}
		provider.On("ParseWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, billing.ErrInvalidSignature)

		checkout := billing.NewCheckoutService(provider, testBillingConfig(), nil)
		ingestor := billing.NewIngestor(provider, newFakePlanStore(), nil)
		router := billing.NewRouter(checkout, ingestor, provider, stubAuth)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_signature")
	})
}
