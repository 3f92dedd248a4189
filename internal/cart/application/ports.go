package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// CartAPI is the remote cart service. Every call carries the bearer token.
type CartAPI interface {
	FetchCart(ctx context.Context, token string) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, token, itemID string, quantity int) error
	RemoveItem(ctx context.Context, token, itemID string) error
}

// Credentials supplies the bearer token. An empty token means the user is
// not logged in.
type Credentials interface {
	Token(ctx context.Context) (string, error)
}

// PromoValidator returns the discount rate for an accepted code.
type PromoValidator interface {
	Validate(code string) (decimal.Decimal, error)
}

// EventPublisher receives committed page events. Publish must not block.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event)
}
