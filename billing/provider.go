package billing

import "context"

// Provider abstracts the payment provider behind hosted checkouts and
// signed webhooks, keeping the rest of the module vendor-neutral.
//
// Implementations must verify webhook signatures before parsing and
// handle provider-specific payload quirks internally.
type Provider interface {
	// CreateCheckout creates a hosted checkout session for a plan.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// ParseWebhook verifies the signature and normalizes the payload.
	// A failed signature check returns ErrInvalidSignature.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)

	// SignatureHeader names the HTTP header carrying the webhook signature.
	SignatureHeader() string
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	PriceID    string // provider's price identifier
	UserID     string // internal user ID, round-tripped via metadata
	Plan       Tier   // plan being purchased, round-tripped via metadata
	Email      string // optional billing email
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a hosted checkout created by the provider.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// EventType is the normalized billing event type. Each provider maps
// its own event names onto these.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout-completed"
	EventSubscriptionUpdated EventType = "subscription-updated"
)

// Event is a verified, normalized webhook event. UserID and Plan come
// from the checkout metadata and may be empty when the provider event
// carries none.
type Event struct {
	Type          EventType
	ProviderEvent string // original provider event name
	EventID       string
	UserID        string
	Plan          string
}
