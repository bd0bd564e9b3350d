// Package events carries "this changed" notifications scoped per topic, so
// a cart view only hears about its own cart and catalog readers only about
// catalog writes.
package events

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Topic names an observable entity.
type Topic string

// TopicCatalog fires after any product, category, banner or stock write.
const TopicCatalog Topic = "catalog"

const cartPrefix = "cart:"

// CartTopic is the topic of one cart.
func CartTopic(cartID string) Topic { return Topic(cartPrefix + cartID) }

// IsCart reports whether t is a cart topic.
func (t Topic) IsCart() bool { return strings.HasPrefix(string(t), cartPrefix) }

// Event is delivered to subscribers after a mutation has been stored.
type Event struct {
	Topic Topic     `json:"topic"`
	At    time.Time `json:"at"`
}

type Handler func(Event)

type Publisher interface {
	Publish(ctx context.Context, topic Topic)
}

type Subscriber interface {
	// Subscribe registers fn for topic and returns the function that removes it.
	Subscribe(topic Topic, fn Handler) func()
}

// Bus is an in-process Publisher and Subscriber. Handlers run synchronously
// on the publishing goroutine and must not block.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic]map[int]Handler
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

func (b *Bus) Subscribe(topic Topic, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		})
	}
}

func (b *Bus) Publish(_ context.Context, topic Topic) {
	b.dispatch(Event{Topic: topic, At: time.Now().UTC()})
}

func (b *Bus) dispatch(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Topic]))
	for _, h := range b.subs[ev.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Subscribers returns how many handlers listen on topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
