package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribers(t *testing.T) {
	d := NewMemoryDispatcher()

	var got []Event
	d.Subscribe(EventOrderCompleted, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	d.Publish(context.Background(), Event{
		ID:             "evt-1",
		Type:           EventOrderCompleted,
		OrganizationID: "ORG-1",
		Timestamp:      time.Now(),
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "evt-1", got[0].ID)
}

func TestPublishFiltersByType(t *testing.T) {
	d := NewMemoryDispatcher()

	var orderEvents, adminEvents int
	d.Subscribe(EventOrderCompleted, func(ctx context.Context, e Event) error {
		orderEvents++
		return nil
	})
	d.Subscribe(EventAdminRegistered, func(ctx context.Context, e Event) error {
		adminEvents++
		return nil
	})

	d.Publish(context.Background(), Event{Type: EventOrderCompleted})
	d.Publish(context.Background(), Event{Type: EventOrderCompleted})
	d.Publish(context.Background(), Event{Type: EventWFHDecided})

	assert.Equal(t, 2, orderEvents)
	assert.Zero(t, adminEvents)
}

func TestPublishMultipleHandlers(t *testing.T) {
	d := NewMemoryDispatcher()

	var first, second bool
	d.Subscribe(EventAdminVerified, func(ctx context.Context, e Event) error {
		first = true
		return errors.New("handler failure must not stop delivery")
	})
	d.Subscribe(EventAdminVerified, func(ctx context.Context, e Event) error {
		second = true
		return nil
	})

	d.Publish(context.Background(), Event{Type: EventAdminVerified})

	assert.True(t, first)
	assert.True(t, second)
}

func TestPublishNoSubscribers(t *testing.T) {
	d := NewMemoryDispatcher()
	assert.NotPanics(t, func() {
		d.Publish(context.Background(), Event{Type: EventOTPRequested})
	})
}
