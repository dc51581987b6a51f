package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-vault/internal/model"
)

func TestEventService_PublishToOwnerOnly(t *testing.T) {
	es := NewEventService()
	aliceCh := es.Subscribe(alice)
	bobCh := es.Subscribe(bob)

	es.Publish(model.NoteEvent{Kind: model.EventCreated, Owner: alice, DisplayID: 1})

	require.Len(t, aliceCh, 1)
	assert.Equal(t, uint64(1), (<-aliceCh).DisplayID)
	assert.Empty(t, bobCh)
}

func TestEventService_FullBufferDropsEvents(t *testing.T) {
	es := NewEventService()
	ch := es.Subscribe(alice)

	for i := 0; i < subscriberBuffer+5; i++ {
		es.Publish(model.NoteEvent{Kind: model.EventUpdated, Owner: alice, DisplayID: uint64(i + 1)})
	}

	assert.Len(t, ch, subscriberBuffer, "publish must not block on a slow subscriber")
}

func TestEventService_Unsubscribe(t *testing.T) {
	es := NewEventService()
	ch := es.Subscribe(alice)

	es.Unsubscribe(alice, ch)
	es.Unsubscribe(alice, ch)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, es.Subscribers(alice))

	// Публикация без подписчиков ничего не делает
	es.Publish(model.NoteEvent{Kind: model.EventCreated, Owner: alice})
}

func TestEventService_Close(t *testing.T) {
	es := NewEventService()
	ch := es.Subscribe(alice)

	es.Close()
	es.Close()

	_, ok := <-ch
	assert.False(t, ok, "Close must close subscriber channels")

	late := es.Subscribe(bob)
	_, ok = <-late
	assert.False(t, ok, "Subscribe after Close returns a closed channel")
	assert.Zero(t, es.Subscribers(bob))
}
