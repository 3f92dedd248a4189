package tui

import (
	"fmt"
	"strings"

	"github.com/dmehra2102/cart-checkout/internal/cart/application"
	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// RenderItems lists the cart items. cursor marks the focused row; pass -1
// for none.
func RenderItems(st Styles, snap application.Snapshot, cursor int) string {
	if snap.Empty() {
		return st.Subtle.Render("Your cart is empty. Browse the store to add books.")
	}

	var sb strings.Builder
	for i, item := range snap.Items {
		qty := snap.Quantity(item.ID)
		marker := "  "
		title := st.ItemTitle.Render(item.Title)
		if i == cursor {
			marker = st.Selected.Render("> ")
			title = st.Selected.Render(item.Title)
		}
		sb.WriteString(marker + title)
		if item.Author != "" {
			sb.WriteString(st.Subtle.Render(" by " + item.Author))
		}
		sb.WriteString("\n    ")

		sb.WriteString(st.Price.Render(domain.FormatRupees(item.Price)))
		if savings := item.Savings(); savings.IsPositive() {
			sb.WriteString(" " + st.StrikeOut.Render(domain.FormatRupees(*item.OriginalPrice)))
			if item.DiscountPercent != nil {
				sb.WriteString(st.Savings.Render(fmt.Sprintf(" %s%% off", item.DiscountPercent.String())))
			}
			sb.WriteString(st.Savings.Render(" You save " + domain.FormatRupees(savings)))
		}
		sb.WriteString(fmt.Sprintf("  [-] %d [+]  = %s\n", qty, domain.FormatRupees(item.LineTotal(qty))))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// RenderSummary prints the order summary: selections, promo and totals.
func RenderSummary(st Styles, snap application.Snapshot) string {
	t := snap.Totals
	var sb strings.Builder

	sb.WriteString(st.Header.Render("Delivery"))
	sb.WriteString("\n")
	for _, opt := range []domain.DeliveryOption{domain.DeliveryStandard, domain.DeliveryExpress} {
		sb.WriteString(option(st, opt == snap.Delivery, opt.Label(), domain.DeliveryCaption(opt, t.Subtotal)))
	}

	sb.WriteString("\n")
	sb.WriteString(st.Header.Render("Payment"))
	sb.WriteString("\n")
	for _, m := range domain.PaymentMethods {
		caption := ""
		if m == domain.PaymentCashOnDelivery {
			caption = "+" + domain.FormatRupees(domain.CODFee) + " fee"
		}
		sb.WriteString(option(st, m == snap.Payment, m.Label(), caption))
	}

	sb.WriteString("\n")
	sb.WriteString(st.Header.Render("Order Summary"))
	sb.WriteString("\n")
	sb.WriteString(line("Subtotal", domain.FormatRupees(t.Subtotal)))
	sb.WriteString("\n")
	if snap.Promo.Applied {
		sb.WriteString(st.Success.Render(line("Discount ("+snap.Promo.Code+")", "-"+domain.FormatRupees(t.Discount))))
		sb.WriteString("\n")
	}
	delivery := domain.FormatRupees(t.DeliveryCharge)
	if t.FreeDelivery() {
		delivery = "Free"
	}
	sb.WriteString(line("Delivery", delivery))
	sb.WriteString("\n")
	if t.CODAdvisoryFee.IsPositive() {
		sb.WriteString(st.Subtle.Render(line("COD fee (payable on delivery)", domain.FormatRupees(t.CODAdvisoryFee))))
		sb.WriteString("\n")
	}
	sb.WriteString(st.TotalLine.Render(line("Total", domain.FormatRupees(t.Total))))
	sb.WriteString("\n")

	return strings.TrimSuffix(sb.String(), "\n")
}

func option(st Styles, selected bool, label, caption string) string {
	mark, style := "( )", st.OptionOff
	if selected {
		mark, style = "(•)", st.OptionOn
	}
	text := mark + " " + label
	if caption != "" {
		text += "  " + caption
	}
	return style.Render(text) + "\n"
}

func line(label, value string) string {
	return fmt.Sprintf("%-32s %10s", label, value)
}
