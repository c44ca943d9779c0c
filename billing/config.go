package billing

// Config holds billing configuration shared by both providers.
type Config struct {
	Provider string `env:"BILLING_PROVIDER" envDefault:"stripe"` // stripe or paddle
	BaseURL  string `env:"APP_BASE_URL,required"`                // public app URL for checkout redirects

	BasicPriceID   string `env:"BILLING_PRICE_BASIC"`
	MediumPriceID  string `env:"BILLING_PRICE_MEDIUM,required"`
	PremiumPriceID string `env:"BILLING_PRICE_PREMIUM,required"`
}

// PriceID returns the provider price identifier configured for a tier.
func (c Config) PriceID(tier Tier) (string, error) {
	var priceID string
	switch tier {
	case TierBasic:
		priceID = c.BasicPriceID
	case TierMedium:
		priceID = c.MediumPriceID
	case TierPremium:
		priceID = c.PremiumPriceID
	}
	if priceID == "" {
		return "", ErrPriceNotConfigured
	}
	return priceID, nil
}
