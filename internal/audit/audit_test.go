package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "residentportal/pkg/domain"
)

func TestPublisherStampsEvents(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }
	rid := id.ResidentID(uuid.New())

	require.NoError(t, pub.Emit(context.Background(), Event{ResidentID: rid, Action: EventProfileSubmitted}))
	require.NoError(t, pub.Emit(context.Background(), Event{ResidentID: id.ResidentID(uuid.New()), Action: EventStatusChanged}))

	events, err := pub.List(context.Background(), rid)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.NotEqual(t, id.EventID{}, events[0].ID)
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	pub := NewChannelPublisher(inbox)

	require.NoError(t, pub.Emit(context.Background(), Event{Action: EventStatusChanged}))
	assert.ErrorIs(t, pub.Emit(context.Background(), Event{Action: EventStatusChanged}), ErrQueueFull)
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	pub := NewChannelPublisher(inbox)
	for range 3 {
		require.NoError(t, pub.Emit(context.Background(), Event{Action: EventStatusChanged}))
	}
	close(inbox)

	err := NewWorker(store, inbox, nil).Run(context.Background())
	require.NoError(t, err)

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWorker(NewInMemoryStore(), make(chan Event), nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
