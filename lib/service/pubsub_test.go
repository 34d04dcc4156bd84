package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avatarlabs/minthub.go/common"
)

func TestPubsubDelivery(t *testing.T) {
	ps := NewPubsub()

	ch := make(chan Event, 1)
	subId, err := ps.Subscribe(common.EventTopicAll, ch)
	assert.NoError(t, err)

	ps.Publish(common.EventTopicAll, Event{Type: common.EventMintIssued})

	select {
	case event := <-ch:
		assert.Equal(t, common.EventMintIssued, event.Type)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}

	// Unsubscribe closes the channel so the consumer loop terminates.
	ps.Unsubscribe(subId, common.EventTopicAll)
	_, open := <-ch
	assert.False(t, open)
}

func TestPubsubTopicIsolation(t *testing.T) {
	ps := NewPubsub()

	ch := make(chan Event, 1)
	_, err := ps.Subscribe(common.EventMintIssued, ch)
	assert.NoError(t, err)

	ps.Publish(common.EventWebpageUpdated, Event{Type: common.EventWebpageUpdated})
	assert.Empty(t, ch)

	ps.Publish(common.EventMintIssued, Event{Type: common.EventMintIssued})
	assert.Len(t, ch, 1)
}

func TestPubsubSlowSubscriberDoesNotBlock(t *testing.T) {
	ps := NewPubsub()

	// A full, never-drained channel stands in for a stalled consumer.
	stalled := make(chan Event)
	_, err := ps.Subscribe(common.EventTopicAll, stalled)
	assert.NoError(t, err)

	healthy := make(chan Event, 1)
	_, err = ps.Subscribe(common.EventTopicAll, healthy)
	assert.NoError(t, err)

	published := make(chan struct{})
	go func() {
		ps.Publish(common.EventTopicAll, Event{Type: common.EventMintIssued})
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}
	assert.Len(t, healthy, 1)
}
