package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig holds configuration for the Stripe billing provider.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
}

// stripeSessionClient is the slice of the Stripe SDK used for checkout.
// Satisfied by client.API.CheckoutSessions; mockable in tests.
type stripeSessionClient interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeProvider implements Provider on top of the Stripe SDK.
type StripeProvider struct {
	sessions      stripeSessionClient
	webhookSecret string
}

// StripeOption configures StripeProvider.
type StripeOption func(*StripeProvider)

// WithStripeSessionClient sets a custom checkout session client.
// Useful for testing with mocks.
func WithStripeSessionClient(c stripeSessionClient) StripeOption {
	return func(p *StripeProvider) {
		p.sessions = c
	}
}

// NewStripeProvider creates a Stripe billing provider.
func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	p := &StripeProvider{webhookSecret: cfg.WebhookSecret}
	for _, opt := range opts {
		opt(p)
	}
	if p.sessions == nil {
		api := client.New(cfg.SecretKey, nil)
		p.sessions = api.CheckoutSessions
	}
	return p, nil
}

// CreateCheckout creates a hosted subscription checkout session.
// The user ID and plan travel in metadata on both the session and the
// resulting subscription so every later webhook can resolve them.
func (p *StripeProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": req.UserID,
				"plan":    req.Plan.String(),
			},
		},
	}
	params.AddMetadata("user_id", req.UserID)
	params.AddMetadata("plan", req.Plan.String())
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	session, err := p.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutSession{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and normalizes the
// event. Signature verification happens before any payload inspection.
func (p *StripeProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{
		Type:          mapStripeEventType(string(stripeEvent.Type)),
		ProviderEvent: string(stripeEvent.Type),
		EventID:       stripeEvent.ID,
	}

	if metadata, ok := stripeEvent.Data.Object["metadata"].(map[string]any); ok {
		if userID, ok := metadata["user_id"].(string); ok {
			event.UserID = userID
		}
		if plan, ok := metadata["plan"].(string); ok {
			event.Plan = plan
		}
	}

	return event, nil
}

// SignatureHeader names the header Stripe signs payloads with.
func (p *StripeProvider) SignatureHeader() string {
	return "Stripe-Signature"
}

func mapStripeEventType(stripeType string) EventType {
	switch stripeType {
	case "checkout.session.completed":
		return EventCheckoutCompleted
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	default:
		return EventType(stripeType)
	}
}
