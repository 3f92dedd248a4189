package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDec(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %d, got %s", msg, want, got)
}

func fixture() ([]domain.LineItem, domain.QuantityMap) {
	items := []domain.LineItem{
		{ID: "A", Title: "Dune", Price: dec(200)},
		{ID: "B", Title: "Emma", Price: decimal.RequireFromString("149.50")},
		{ID: "C", Title: "Ulysses", Price: dec(75)},
	}
	return items, domain.QuantityMap{"A": 2, "B": 3, "C": 1}
}

var discount20 = domain.PromoState{Code: "DISCOUNT20", Applied: true, Rate: decimal.RequireFromString("0.20")}

func TestSubtotalMatchesManualSum(t *testing.T) {
	items, qty := fixture()

	// 200*2 + 149.50*3 + 75*1
	want := decimal.RequireFromString("923.50")
	assert.True(t, want.Equal(domain.Subtotal(items, qty)))
}

func TestSubtotalIgnoresItemsWithoutQuantity(t *testing.T) {
	items, _ := fixture()

	assertDec(t, 200, domain.Subtotal(items, domain.QuantityMap{"A": 1}), "subtotal")
	assertDec(t, 0, domain.Subtotal(nil, nil), "empty subtotal")
}

func TestDeliveryCharge(t *testing.T) {
	for s := int64(0); s <= 498; s++ {
		assertDec(t, 49, domain.DeliveryCharge(dec(s), domain.DeliveryStandard), "standard below threshold")
	}
	for _, s := range []int64{499, 500, 600, 10_000} {
		assertDec(t, 0, domain.DeliveryCharge(dec(s), domain.DeliveryStandard), "standard at or above threshold")
	}
	for _, s := range []int64{0, 100, 498, 499, 600, 10_000} {
		assertDec(t, 99, domain.DeliveryCharge(dec(s), domain.DeliveryExpress), "express")
	}
	assertDec(t, 49, domain.DeliveryCharge(decimal.RequireFromString("498.99"), domain.DeliveryStandard), "fractional subtotal")
}

func TestDiscount(t *testing.T) {
	assertDec(t, 0, domain.Discount(dec(400), domain.PromoState{Code: "DISCOUNT20"}), "not applied")
	assertDec(t, 80, domain.Discount(dec(400), discount20), "applied")
	// 20% of 2.5 = 0.5 rounds up
	assertDec(t, 1, domain.Discount(decimal.RequireFromString("2.5"), discount20), "half rounds up")
	// 20% of 923.50 = 184.7
	assertDec(t, 185, domain.Discount(decimal.RequireFromString("923.50"), discount20), "rounded")
}

func TestCalculateScenarios(t *testing.T) {
	items := []domain.LineItem{{ID: "A", Price: dec(200)}}
	qty := domain.QuantityMap{"A": 2}

	t.Run("no promo standard delivery", func(t *testing.T) {
		got := domain.Calculate(items, qty, domain.PromoState{}, domain.DeliveryStandard, domain.PaymentCard)
		assertDec(t, 400, got.Subtotal, "subtotal")
		assertDec(t, 0, got.Discount, "discount")
		assertDec(t, 49, got.DeliveryCharge, "delivery")
		assertDec(t, 449, got.Total, "total")
	})

	t.Run("promo applied", func(t *testing.T) {
		got := domain.Calculate(items, qty, discount20, domain.DeliveryStandard, domain.PaymentCard)
		assertDec(t, 80, got.Discount, "discount")
		assertDec(t, 369, got.Total, "total")
	})

	t.Run("free standard delivery", func(t *testing.T) {
		big := []domain.LineItem{{ID: "A", Price: dec(300)}}
		got := domain.Calculate(big, qty, domain.PromoState{}, domain.DeliveryStandard, domain.PaymentCard)
		assertDec(t, 600, got.Subtotal, "subtotal")
		assertDec(t, 0, got.DeliveryCharge, "delivery")
		assertDec(t, 600, got.Total, "total")
		assert.True(t, got.FreeDelivery())
	})

	t.Run("express", func(t *testing.T) {
		got := domain.Calculate(items, qty, domain.PromoState{}, domain.DeliveryExpress, domain.PaymentUPI)
		assertDec(t, 99, got.DeliveryCharge, "delivery")
		assertDec(t, 499, got.Total, "total")
	})
}

func TestCashOnDeliveryFeeIsAdvisoryOnly(t *testing.T) {
	items := []domain.LineItem{{ID: "A", Price: dec(200)}}
	qty := domain.QuantityMap{"A": 2}

	got := domain.Calculate(items, qty, domain.PromoState{}, domain.DeliveryStandard, domain.PaymentCashOnDelivery)

	assertDec(t, 40, got.CODAdvisoryFee, "advisory fee")
	assertDec(t, 49, got.DeliveryCharge, "delivery")
	assertDec(t, 449, got.Total, "total")
}

func TestLineItemSavings(t *testing.T) {
	orig := dec(250)
	item := domain.LineItem{Price: dec(200), OriginalPrice: &orig}
	assertDec(t, 50, item.Savings(), "savings")

	cheaper := dec(150)
	item.OriginalPrice = &cheaper
	assertDec(t, 0, item.Savings(), "no savings when original is lower")

	item.OriginalPrice = nil
	assertDec(t, 0, item.Savings(), "no original price")
	assertDec(t, 600, item.LineTotal(3), "line total")
}
