package feed_test

import (
	"testing"

	"github.com/Alia5/PADLINK/internal/server/feed"
	"github.com/Alia5/PADLINK/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	h := feed.New()

	a, cancelA := h.Subscribe(4)
	b, cancelB := h.Subscribe(4)
	defer cancelA()
	defer cancelB()
	assert.Equal(t, 2, h.Subscribers())

	ev := pad.Event{Kind: pad.KindButton, Button: 3, Pressed: true}
	h.Publish(ev)

	assert.Equal(t, ev, <-a)
	assert.Equal(t, ev, <-b)
}

func TestHubDropsWhenFull(t *testing.T) {
	h := feed.New()
	ch, cancel := h.Subscribe(1)
	defer cancel()

	h.Publish(pad.Event{Kind: pad.KindRumble, Pressed: true})
	h.Publish(pad.Event{Kind: pad.KindMode, Pressed: true}) // dropped

	require.Len(t, ch, 1)
	assert.Equal(t, pad.KindRumble, (<-ch).Kind)
}

func TestHubCancel(t *testing.T) {
	h := feed.New()
	ch, cancel := h.Subscribe(1)

	cancel()
	cancel() // idempotent
	assert.Equal(t, 0, h.Subscribers())

	h.Publish(pad.Event{Kind: pad.KindConnected})
	_, open := <-ch
	assert.False(t, open)
}
