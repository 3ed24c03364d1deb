// Package events publishes order lifecycle notifications after the
// corresponding transaction has committed.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderPlaced  = "order.placed"
	TypeOrderDeleted = "order.deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"orderId"`
	UserID     int64     `json:"userId"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewOrderEvent stamps a fresh id and the current time.
func NewOrderEvent(typ string, orderID, userID int64, total float64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OrderID:    orderID,
		UserID:     userID,
		Total:      total,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
