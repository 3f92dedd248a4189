package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
)

func ParseDeliveryOption(s string) (DeliveryOption, error) {
	switch o := DeliveryOption(strings.ToLower(strings.TrimSpace(s))); o {
	case DeliveryStandard, DeliveryExpress:
		return o, nil
	}
	return "", NewValidationError("unknown delivery option %q", s)
}

func (o DeliveryOption) Label() string {
	if o == DeliveryExpress {
		return "Express Delivery"
	}
	return "Standard Delivery"
}

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentUPI            PaymentMethod = "upi"
	PaymentNetBanking     PaymentMethod = "netbanking"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

// PaymentMethods lists the methods in the order the page offers them.
var PaymentMethods = []PaymentMethod{PaymentCard, PaymentUPI, PaymentNetBanking, PaymentCashOnDelivery}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, nil
		}
	}
	return "", NewValidationError("unknown payment method %q", s)
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentUPI:
		return "UPI"
	case PaymentNetBanking:
		return "Net Banking"
	case PaymentCashOnDelivery:
		return "Cash on Delivery"
	default:
		return "Credit/Debit Card"
	}
}

// PromoState tracks the promo code entered on the page. Once Applied the
// code cannot be changed until the page state is reset.
type PromoState struct {
	Code    string
	Applied bool
	Rate    decimal.Decimal
}

// NormalizePromoCode trims and upper-cases a user entered code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Mode string

const (
	ModeLoading Mode = "loading"
	ModeReady   Mode = "ready"
	ModeError   Mode = "error"
)
