package domain

import "github.com/shopspring/decimal"

// FormatRupees renders an amount the way the page prints prices.
func FormatRupees(d decimal.Decimal) string {
	return "₹" + d.String()
}

// DeliveryCaption is the price shown next to a delivery option.
func DeliveryCaption(option DeliveryOption, subtotal decimal.Decimal) string {
	charge := DeliveryCharge(subtotal, option)
	if charge.IsZero() {
		return "Free"
	}
	return FormatRupees(charge)
}
