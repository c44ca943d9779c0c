package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/blogfusion/auth"
	"github.com/dmitrymomot/blogfusion/core"
)

// maxWebhookBody caps webhook payload reads.
const maxWebhookBody = 1 << 20

type checkoutPayload struct {
	Plan string `json:"plan"`
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// NewRouter mounts the billing endpoints. The checkout endpoint sits
// behind authentication; the webhook endpoint authenticates via the
// provider signature instead.
func NewRouter(checkout *CheckoutService, ingestor *Ingestor, provider Provider, authMW func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.With(authMW).Post("/checkout", handleCheckout(checkout))
	r.Post("/webhook", handleWebhook(ingestor, provider))

	return r
}

func handleCheckout(checkout *CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())

		var payload checkoutPayload
		if err := core.DecodeJSON(r, &payload); err != nil {
			core.Error(w, err)
			return
		}

		session, err := checkout.Initiate(r.Context(), principal.UserID, principal.Email, payload.Plan)
		switch {
		case errors.Is(err, ErrUnknownPlan):
			core.ErrorWithMessage(w, core.NewHTTPError(http.StatusBadRequest, "unknown_plan"), "unknown subscription plan")
		case errors.Is(err, ErrPriceNotConfigured):
			core.ErrorWithMessage(w, core.NewHTTPError(http.StatusBadRequest, "plan_not_available"), "plan is not available for purchase")
		case err != nil:
			core.Error(w, core.ErrBadGateway)
		default:
			core.JSON(w, http.StatusOK, checkoutResponse{
				SessionID: session.SessionID,
				URL:       session.URL,
			})
		}
	}
}

func handleWebhook(ingestor *Ingestor, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			core.Error(w, core.ErrBadRequest)
			return
		}

		signature := r.Header.Get(provider.SignatureHeader())
		if err := ingestor.Ingest(r.Context(), payload, signature); err != nil {
			core.ErrorWithMessage(w, core.NewHTTPError(http.StatusBadRequest, "invalid_signature"), "webhook signature verification failed")
			return
		}

		core.JSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}
