package application

import (
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

const DefaultPromoToken = "DISCOUNT20"

var DefaultPromoRate = decimal.RequireFromString("0.20")

// FixedTokenValidator accepts a single code, compared after trimming and
// upper-casing.
type FixedTokenValidator struct {
	Token string
	Rate  decimal.Decimal
}

func NewFixedTokenValidator(token string) FixedTokenValidator {
	if token == "" {
		token = DefaultPromoToken
	}
	return FixedTokenValidator{Token: domain.NormalizePromoCode(token), Rate: DefaultPromoRate}
}

func (v FixedTokenValidator) Validate(code string) (decimal.Decimal, error) {
	if domain.NormalizePromoCode(code) != v.Token {
		return decimal.Zero, domain.NewValidationError("invalid promo code")
	}
	return v.Rate, nil
}
