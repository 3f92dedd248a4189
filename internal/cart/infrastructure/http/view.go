package http

import (
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/cart-checkout/internal/cart/application"
	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

type cartView struct {
	Mode     string      `json:"mode"`
	Error    string      `json:"error,omitempty"`
	Notice   string      `json:"notice,omitempty"`
	Empty    bool        `json:"empty"`
	Items    []itemView  `json:"items"`
	Promo    promoView   `json:"promo"`
	Delivery choiceView  `json:"delivery"`
	Payment  choiceView  `json:"payment"`
	Summary  summaryView `json:"summary"`
}

type itemView struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Author          string           `json:"author,omitempty"`
	Publisher       string           `json:"publisher,omitempty"`
	Category        string           `json:"category,omitempty"`
	Image           string           `json:"image,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	Savings         *decimal.Decimal `json:"savings,omitempty"`
	Quantity        int              `json:"quantity"`
	LineTotal       decimal.Decimal  `json:"line_total"`
}

type promoView struct {
	Code    string `json:"code,omitempty"`
	Applied bool   `json:"applied"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Caption  string `json:"caption,omitempty"`
	Selected bool   `json:"selected"`
}

type choiceView struct {
	Selected string       `json:"selected"`
	Options  []optionView `json:"options"`
}

type summaryView struct {
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Discount       decimal.Decimal  `json:"discount"`
	DeliveryCharge decimal.Decimal  `json:"delivery_charge"`
	FreeDelivery   bool             `json:"free_delivery"`
	Total          decimal.Decimal  `json:"total"`
	CODFee         *decimal.Decimal `json:"cod_fee,omitempty"`
}

func newCartView(s application.Snapshot) cartView {
	v := cartView{
		Mode:   string(s.Mode),
		Error:  s.Error,
		Notice: s.Notice,
		Empty:  s.Empty(),
		Items:  make([]itemView, 0, len(s.Items)),
		Promo:  promoView{Code: s.Promo.Code, Applied: s.Promo.Applied},
		Summary: summaryView{
			Subtotal:       s.Totals.Subtotal,
			Discount:       s.Totals.Discount,
			DeliveryCharge: s.Totals.DeliveryCharge,
			FreeDelivery:   s.Totals.FreeDelivery(),
			Total:          s.Totals.Total,
		},
	}

	for _, item := range s.Items {
		qty := s.Quantity(item.ID)
		iv := itemView{
			ID:              item.ID,
			Title:           item.Title,
			Author:          item.Author,
			Publisher:       item.Publisher,
			Category:        item.Category,
			Image:           item.ImageRef,
			Price:           item.Price,
			OriginalPrice:   item.OriginalPrice,
			DiscountPercent: item.DiscountPercent,
			Quantity:        qty,
			LineTotal:       item.LineTotal(qty),
		}
		if savings := item.Savings(); savings.IsPositive() {
			iv.Savings = &savings
		}
		v.Items = append(v.Items, iv)
	}

	v.Delivery.Selected = string(s.Delivery)
	for _, opt := range []domain.DeliveryOption{domain.DeliveryStandard, domain.DeliveryExpress} {
		v.Delivery.Options = append(v.Delivery.Options, optionView{
			Value:    string(opt),
			Label:    opt.Label(),
			Caption:  domain.DeliveryCaption(opt, s.Totals.Subtotal),
			Selected: opt == s.Delivery,
		})
	}

	v.Payment.Selected = string(s.Payment)
	for _, m := range domain.PaymentMethods {
		ov := optionView{Value: string(m), Label: m.Label(), Selected: m == s.Payment}
		if m == domain.PaymentCashOnDelivery {
			ov.Caption = "+" + domain.FormatRupees(domain.CODFee) + " fee"
		}
		v.Payment.Options = append(v.Payment.Options, ov)
	}

	if s.Totals.CODAdvisoryFee.IsPositive() {
		fee := s.Totals.CODAdvisoryFee
		v.Summary.CODFee = &fee
	}
	return v
}
