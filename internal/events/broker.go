// Package events fans out "data changed" hints to live dashboard streams.
// Delivery is best effort: a subscriber that is not keeping up misses events.
package events

import (
	"sync"
	"time"
)

const KindCobs = "cobs"

type Event struct {
	Kind   string    `json:"kind"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

type Broker struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
	buffer int
}

func NewBroker() *Broker {
	return &Broker{subs: map[chan Event]struct{}{}, buffer: 8}
}

// Subscribe returns a stream of events and a func that ends it. The channel
// is closed by cancel or by Close.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
		delete(b.subs, ch)
	}
}
