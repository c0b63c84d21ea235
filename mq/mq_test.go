package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

type channelRecorder struct {
	channel string
	payload []byte
}

func (c *channelRecorder) Publish(_ context.Context, channel string, payload []byte) error {
	c.channel = channel
	c.payload = payload
	return nil
}

func TestFanoutDeliversToAll(t *testing.T) {
	a, b := &recorder{err: errors.New("down")}, &recorder{}
	err := Fanout{a, b}.Publish(context.Background(), Event{Type: BookingCreated, EntityID: "b1"})
	if err == nil {
		t.Fatal("expected joined error from failing publisher")
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("deliveries = %d, %d; want 1, 1", len(a.events), len(b.events))
	}
}

func TestEmitStampsTime(t *testing.T) {
	r := &recorder{err: errors.New("ignored")}
	Emit(context.Background(), r, Event{Type: BookingUpdated})
	if len(r.events) != 1 || r.events[0].At.IsZero() {
		t.Fatalf("events = %+v", r.events)
	}
	Emit(context.Background(), nil, Event{Type: BookingUpdated})
}

func TestRedisPublisherEncodesEvent(t *testing.T) {
	c := &channelRecorder{}
	p := NewRedisPublisher(c, "bhraman-events")
	if err := p.Publish(context.Background(), Event{Type: BookingDeleted, EntityID: "b9"}); err != nil {
		t.Fatal(err)
	}
	if c.channel != "bhraman-events" {
		t.Fatalf("channel = %q", c.channel)
	}
	var got Event
	if err := json.Unmarshal(c.payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != BookingDeleted || got.EntityID != "b9" {
		t.Fatalf("decoded = %+v", got)
	}
}
