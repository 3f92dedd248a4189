package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCartLoaded            EventType = "CartLoaded"
	EventQuantityUpdated       EventType = "QuantityUpdated"
	EventItemRemoved           EventType = "ItemRemoved"
	EventPromoApplied          EventType = "PromoApplied"
	EventDeliveryOptionChanged EventType = "DeliveryOptionChanged"
	EventPaymentMethodChanged  EventType = "PaymentMethodChanged"
)

// Event records a committed change to the page state.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	ItemID     string    `json:"item_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	ItemCount  int       `json:"item_count,omitempty"`
	PromoCode  string    `json:"promo_code,omitempty"`
	Selection  string    `json:"selection,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}
