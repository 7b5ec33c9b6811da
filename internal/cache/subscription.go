package cache

import "sync"

// Subscription marks one active consumer of a query. While any subscription is
// open, the entry never expires and is refetched in the background after an
// invalidation. Closing it abandons interest but does not abort requests in flight.
type Subscription struct {
	store   *Store
	entry   *entry
	updates chan State
	once    sync.Once
}

// Subscribe registers a consumer for req. If the tag opted into RefetchOnMount,
// previously fetched data is marked stale so the consumer's next read refetches.
func Subscribe[T any](s *Store, req Request[T]) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	e := s.entryLocked(req.Key, req.Tag)
	e.fetch = req.fetchFunc()

	sub := &Subscription{store: s, entry: e, updates: make(chan State, 1)}
	e.subs[sub] = struct{}{}
	s.pinLocked(e)

	if s.tags[req.Tag].RefetchOnMount && e.hasData {
		s.markStaleLocked(e)
		s.metrics.invalidated(e.tag, "mount")
	}
	return sub, nil
}

// Updates delivers state transitions of the subscribed entry. Only the latest
// unread state is kept. The channel is closed by Close.
func (sub *Subscription) Updates() <-chan State {
	return sub.updates
}

// Key returns the subscribed query key.
func (sub *Subscription) Key() string {
	return sub.entry.key
}

// Close unsubscribes. It is safe to call more than once.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		s := sub.store
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(sub.entry.subs, sub)
		if !s.closed {
			s.pinLocked(sub.entry)
		}
		close(sub.updates)
	})
}
