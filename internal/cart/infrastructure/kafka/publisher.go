package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
	"github.com/dmehra2102/cart-checkout/pkg/outbox"
	"github.com/dmehra2102/cart-checkout/pkg/tracing"
)

const aggregateType = "cart_page"

type outboxAppender interface {
	Append(e outbox.Event) int64
}

// Publisher records page events in the outbox; the relay ships them to
// Kafka. Events from one page share a key so they stay ordered.
type Publisher struct {
	log    *slog.Logger
	store  outboxAppender
	pageID string
}

func NewPublisher(log *slog.Logger, store outboxAppender, pageID string) *Publisher {
	return &Publisher{log: log, store: store, pageID: pageID}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal cart event", "type", event.Type, "err", err)
		return
	}

	id := p.store.Append(outbox.Event{
		AggregateType: aggregateType,
		AggregateID:   p.pageID,
		Type:          string(event.Type),
		Payload:       payload,
		Headers:       map[string]string{"event_id": event.ID.String()},
		Traceparent:   tracing.Traceparent(ctx),
		CreatedAt:     event.OccurredAt,
	})
	p.log.Debug("cart event queued", "type", event.Type, "outbox_id", id)
}
