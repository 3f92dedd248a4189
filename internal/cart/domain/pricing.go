package domain

import "github.com/shopspring/decimal"

var (
	StandardDeliveryCharge = decimal.NewFromInt(49)
	ExpressDeliveryCharge  = decimal.NewFromInt(99)
	FreeDeliveryThreshold  = decimal.NewFromInt(499)

	// CODFee is advertised next to Cash on Delivery. It is shown to the user
	// but never added to DeliveryCharge or Total.
	CODFee = decimal.NewFromInt(40)
)

// Totals are derived on every read and never stored.
type Totals struct {
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal

	// CODAdvisoryFee is non-zero when Cash on Delivery is selected. Display only.
	CODAdvisoryFee decimal.Decimal
}

// FreeDelivery reports whether the delivery line should read "Free".
func (t Totals) FreeDelivery() bool {
	return t.DeliveryCharge.IsZero()
}

// Subtotal sums price times quantity; items without a quantity count as zero.
func Subtotal(items []LineItem, quantities QuantityMap) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal(quantities[item.ID]))
	}
	return sum
}

// DeliveryCharge is 99 for express, otherwise 49 below the free delivery
// threshold and 0 at or above it.
func DeliveryCharge(subtotal decimal.Decimal, option DeliveryOption) decimal.Decimal {
	if option == DeliveryExpress {
		return ExpressDeliveryCharge
	}
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return StandardDeliveryCharge
}

// Discount rounds subtotal*rate to whole units, halves rounding up.
func Discount(subtotal decimal.Decimal, promo PromoState) decimal.Decimal {
	if !promo.Applied {
		return decimal.Zero
	}
	return subtotal.Mul(promo.Rate).Round(0)
}

func Calculate(items []LineItem, quantities QuantityMap, promo PromoState, delivery DeliveryOption, payment PaymentMethod) Totals {
	subtotal := Subtotal(items, quantities)
	discount := Discount(subtotal, promo)
	charge := DeliveryCharge(subtotal, delivery)

	t := Totals{
		Subtotal:       subtotal,
		Discount:       discount,
		DeliveryCharge: charge,
		Total:          subtotal.Sub(discount).Add(charge),
		CODAdvisoryFee: decimal.Zero,
	}
	if payment == PaymentCashOnDelivery {
		t.CODAdvisoryFee = CODFee
	}
	return t
}
