package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/personaquiz/platform-client/internal/core/domain"
)

const subscriberBuffer = 8

// broadcaster fans session snapshots out to subscribers over buffered
// channels. Publishing never blocks a transition: a subscriber that falls
// behind loses intermediate snapshots and the drop is logged.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan domain.Session
	nextID int
	closed bool
	log    zerolog.Logger
}

func newBroadcaster(log zerolog.Logger) *broadcaster {
	return &broadcaster{
		subs: make(map[int]chan domain.Session),
		log:  log,
	}
}

// subscribe registers a new listener. The cancel func is idempotent and
// safe to call after close.
func (b *broadcaster) subscribe() (<-chan domain.Session, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan domain.Session)
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	ch := make(chan domain.Session, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// publish delivers sess to every live subscriber without blocking.
func (b *broadcaster) publish(sess domain.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- sess:
		default:
			b.log.Warn().Int("subscriber", id).Msg("session broadcast dropped, subscriber not draining")
		}
	}
}

// close releases all subscribers. Further publishes are no-ops.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
