package mq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
)

const (
	BookingCreated               = "booking.created"
	BookingUpdated               = "booking.updated"
	BookingDeleted               = "booking.deleted"
	BookingPaymentCompleted      = "booking.payment_completed"
	BookingConfirmationRequested = "booking.confirmation_requested"
	PackageChanged               = "package.changed"
	HomeConfigUpdated            = "homeconfig.updated"
)

// Event is a domain event. Type doubles as the routing key.
type Event struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Emit publishes ev and logs failures. Events are notifications, so a
// broken broker never fails the request that produced them.
func Emit(ctx context.Context, p Publisher, ev Event) {
	if p == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Printf("[Emit] publish failed type=%s entity=%s err=%v", ev.Type, ev.EntityID, err)
	}
}

// LogPublisher writes events to the process log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev Event) error {
	log.Printf("[Emit] type=%s entity=%s", ev.Type, ev.EntityID)
	return nil
}

// Fanout delivers each event to every publisher.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
