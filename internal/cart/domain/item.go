package domain

import "github.com/shopspring/decimal"

// LineItem is one distinct product in the cart, independent of quantity.
type LineItem struct {
	ID              string
	Title           string
	Author          string
	Publisher       string
	Category        string
	ImageRef        string
	Price           decimal.Decimal
	OriginalPrice   *decimal.Decimal
	DiscountPercent *decimal.Decimal
}

// Savings is how much cheaper the item is than its original price, or zero
// when there is no higher original price.
func (i LineItem) Savings() decimal.Decimal {
	if i.OriginalPrice == nil || !i.OriginalPrice.GreaterThan(i.Price) {
		return decimal.Zero
	}
	return i.OriginalPrice.Sub(i.Price)
}

// LineTotal is the item price times qty.
func (i LineItem) LineTotal(qty int) decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// QuantityMap maps line item ids to a quantity of at least one.
type QuantityMap map[string]int

func (q QuantityMap) Clone() QuantityMap {
	out := make(QuantityMap, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Cart is the server's view of a user's cart as returned by a load.
type Cart struct {
	Items      []LineItem
	Quantities QuantityMap
}

func (c Cart) Find(id string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}
