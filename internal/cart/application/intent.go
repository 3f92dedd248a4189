package application

import (
	"context"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// Intent is a user action emitted by a view.
type Intent interface {
	Name() string
}

type UpdateQuantity struct {
	ItemID string
	Delta  int
}

type RemoveItem struct {
	ItemID string
}

type ApplyPromo struct {
	Code string
}

type SetDeliveryOption struct {
	Option domain.DeliveryOption
}

type SetPaymentMethod struct {
	Method domain.PaymentMethod
}

// Reload is the error view's manual reload action.
type Reload struct{}

func (UpdateQuantity) Name() string    { return "UpdateQuantity" }
func (RemoveItem) Name() string        { return "RemoveItem" }
func (ApplyPromo) Name() string        { return "ApplyPromo" }
func (SetDeliveryOption) Name() string { return "SetDeliveryOption" }
func (SetPaymentMethod) Name() string  { return "SetPaymentMethod" }
func (Reload) Name() string            { return "Reload" }

// Dispatch applies a single intent synchronously.
func (s *Store) Dispatch(ctx context.Context, in Intent) error {
	if in == nil {
		return domain.NewValidationError("missing intent")
	}
	s.log.Debug("dispatching intent", "intent", in.Name())

	switch in := in.(type) {
	case UpdateQuantity:
		return s.UpdateQuantity(ctx, in.ItemID, in.Delta)
	case RemoveItem:
		return s.RemoveItem(ctx, in.ItemID)
	case ApplyPromo:
		return s.ApplyPromo(ctx, in.Code)
	case SetDeliveryOption:
		return s.SetDeliveryOption(ctx, in.Option)
	case SetPaymentMethod:
		return s.SetPaymentMethod(ctx, in.Method)
	case Reload:
		return s.Reload(ctx)
	default:
		return domain.NewValidationError("unknown intent %T", in)
	}
}
