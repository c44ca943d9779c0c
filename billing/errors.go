package billing

import "errors"

var (
	ErrUnknownPlan         = errors.New("unknown subscription plan")
	ErrPriceNotConfigured  = errors.New("no price configured for plan")
	ErrProviderUnavailable = errors.New("billing provider error")
	ErrInvalidSignature    = errors.New("webhook signature verification failed")
	ErrNoCheckoutURL       = errors.New("no checkout URL returned from provider")

	ErrMissingAPIKey             = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret      = errors.New("billing provider webhook secret is required")
	ErrInvalidBillingEnvironment = errors.New("invalid billing provider environment")

	ErrFailedToLoadPlan   = errors.New("failed to load plan record")
	ErrFailedToStorePlan  = errors.New("failed to store plan record")
	ErrFailedToCountUsage = errors.New("failed to update published counter")
)
