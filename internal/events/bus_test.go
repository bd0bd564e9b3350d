package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversOnlyToTopic(t *testing.T) {
	bus := NewBus()
	var got []Topic
	bus.Subscribe(CartTopic("a"), func(ev Event) { got = append(got, ev.Topic) })
	bus.Subscribe(TopicCatalog, func(ev Event) { got = append(got, ev.Topic) })

	bus.Publish(context.Background(), CartTopic("a"))
	bus.Publish(context.Background(), CartTopic("b"))

	assert.Equal(t, []Topic{"cart:a"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	cancel := bus.Subscribe(TopicCatalog, func(Event) { calls++ })
	assert.Equal(t, 1, bus.Subscribers(TopicCatalog))

	cancel()
	cancel()
	bus.Publish(context.Background(), TopicCatalog)

	assert.Zero(t, calls)
	assert.Zero(t, bus.Subscribers(TopicCatalog))
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	n := 0
	bus.Subscribe(TopicCatalog, func(Event) {
		mu.Lock()
		n++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), TopicCatalog)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, n)
}

func TestTopic_IsCart(t *testing.T) {
	assert.True(t, CartTopic("x").IsCart())
	assert.False(t, TopicCatalog.IsCart())
}
