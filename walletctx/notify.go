package walletctx

import (
	"sync"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/pkg/logger"
)

type subscriber struct {
	id uint64
	fn func(Snapshot)
}

// subscribers delivers states in publication order. Whichever goroutine finds the queue idle
// drains it, including states queued by other goroutines or by a subscriber calling back into the
// Context during delivery.
type subscribers struct {
	lggr logger.Logger

	mu         sync.Mutex
	nextID     uint64
	list       []subscriber
	pending    []*state
	last       uint64
	delivering bool
}

func (s *subscribers) subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.list {
				if sub.id == id {
					s.list = append(s.list[:i:i], s.list[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *subscribers) notify(st *state) {
	s.mu.Lock()
	// a state queued after a later one is already superseded
	if st.revision <= s.last {
		s.mu.Unlock()
		return
	}
	s.last = st.revision
	s.pending = append(s.pending, st)
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		list := s.list
		s.mu.Unlock()

		snap := newSnapshot(next)
		for _, sub := range list {
			s.deliver(sub, snap)
		}

		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func (s *subscribers) deliver(sub subscriber, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.lggr.Warnw("Subscriber panicked", "revision", snap.Revision, "panic", r)
		}
	}()

	sub.fn(snap)
}
