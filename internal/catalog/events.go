package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-catalog/internal/platform/kafka"
)

// EventType names a product lifecycle change.
type EventType string

const (
	EventProductCreated     EventType = "product.created"
	EventProductUpdated     EventType = "product.updated"
	EventProductPriceChange EventType = "product.price_changed"
	EventProductDeactivated EventType = "product.deactivated"
)

// Event is published after the unit of work that produced it commits.
type Event struct {
	ID            string           `json:"id"`
	Type          EventType        `json:"type"`
	ProductID     int64            `json:"product_id"`
	Code          string           `json:"code"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	PreviousPrice *decimal.Decimal `json:"previous_price,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// Publisher delivers catalog events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...Event) error { return nil }

func newEvent(kind EventType, productID int64, code string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       kind,
		ProductID:  productID,
		Code:       code,
		OccurredAt: at.UTC(),
	}
}

// BrokerPublisher sends catalog events to a Kafka topic keyed by product code.
type BrokerPublisher struct {
	producer *kafka.Producer
	observe  func(eventType string, err error)
}

// NewBrokerPublisher wraps producer. observe, when set, sees the outcome of
// every event.
func NewBrokerPublisher(producer *kafka.Producer, observe func(eventType string, err error)) *BrokerPublisher {
	return &BrokerPublisher{producer: producer, observe: observe}
}

func (p *BrokerPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]kafka.Record, 0, len(events))
	for _, ev := range events {
		records = append(records, kafka.Record{Key: ev.Code, Value: ev})
	}
	err := p.producer.Publish(ctx, records...)
	if p.observe != nil {
		for _, ev := range events {
			p.observe(string(ev.Type), err)
		}
	}
	return err
}
