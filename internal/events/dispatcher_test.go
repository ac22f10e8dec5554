package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherPublishSubscribe(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{
		Type:      EventUserRegistered,
		SubjectID: 42,
		Payload:   UserRegisteredPayload{Email: "a@x.com"},
	})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, int64(42), received[0].SubjectID)
}

func TestDispatcherIgnoresOtherTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventRoleAssigned, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserRegistered}))
	assert.False(t, called)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var order []string
	d.Subscribe(EventSchoolCreated, func(_ context.Context, _ Event) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventSchoolCreated, func(_ context.Context, _ Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSchoolCreated}))
	assert.Equal(t, []string{"first", "second"}, order)
}
