package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe(TopicCalendar)
	b, cancelB := hub.Subscribe(TopicCalendar)
	other, cancelOther := hub.Subscribe("other")
	defer cancelA()
	defer cancelB()
	defer cancelOther()

	assert.Equal(t, 2, hub.SubscriberCount(TopicCalendar))
	assert.Equal(t, 3, hub.TotalSubscribers())

	n := hub.Publish(TopicCalendar, Event{Event: "snapshot", Data: map[string]int{"cleaners": 12}})
	assert.Equal(t, 2, n)

	for _, ch := range []chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, "snapshot", ev.Event)
		assert.Equal(t, TopicCalendar, ev.Topic)
		assert.NotEmpty(t, ev.ID)
	}
	assert.Len(t, other, 0)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(TopicCalendar)
	defer cancel()

	for i := 0; i < cap(ch); i++ {
		require.Equal(t, 1, hub.Publish(TopicCalendar, Event{Event: "snapshot"}))
	}
	assert.Equal(t, 0, hub.Publish(TopicCalendar, Event{Event: "snapshot"}))
}

func TestHubCleanup(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(TopicCalendar)
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount(TopicCalendar))
	assert.Equal(t, 0, hub.Publish(TopicCalendar, Event{Event: "snapshot"}))
}
