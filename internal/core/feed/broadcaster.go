package feed

import "sync"

// Broadcaster fans ticks out to websocket subscribers. Slow subscribers
// drop ticks instead of blocking the publisher.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Tick]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Tick]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Tick, func()) {
	ch := make(chan Tick, 16)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers a tick to every subscriber.
func (b *Broadcaster) Publish(tick Tick) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- tick:
		default:
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
