// Package cache is the process-wide query cache shared by every resource slice.
//
// Entries are keyed by query key (endpoint plus argument) and each carries one Tag.
// A read of a Fresh entry is served from memory. Any other state triggers a fetch,
// and concurrent readers of the same key share a single in-flight request.
// Writes invalidate whole tags. Every entry under the tag goes stale, and entries
// that still have subscribers are refetched in the background. Entries without
// subscribers wait for their next reader.
//
// Each invalidation bumps the entry generation. A fetch result is stored only if
// no newer fetch has already landed, and it counts as Fresh only if no
// invalidation happened while it was in flight.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

var (
	ErrClosed       = errors.New("cache store is closed")
	ErrTypeMismatch = errors.New("cached value has unexpected type")
)

// FetchFunc loads the current value of one query from upstream.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key   string
	tag   Tag
	state State

	data    any
	hasData bool

	gen       uint64              // bumped on every invalidation
	storedGen uint64              // generation the stored data was fetched at
	flights   map[uint64]struct{} // generations with a request in flight

	fetch FetchFunc
	subs  map[*Subscription]struct{}
}

// settle derives the state from generations and in-flight requests.
func (e *entry) settle() {
	switch {
	case e.hasData && e.storedGen == e.gen:
		e.state = Fresh
	case len(e.flights) > 0:
		e.state = Fetching
	case e.hasData:
		e.state = Stale
	default:
		e.state = Uncached
	}
}

// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu      sync.Mutex
	entries *ttlcache.Cache[string, *entry]
	tags    map[Tag]TagOptions
	group   singleflight.Group
	closed  bool

	keepUnused time.Duration
	log        *slog.Logger
	metrics    *Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithKeepUnusedFor sets how long an entry without subscribers survives after its last read.
func WithKeepUnusedFor(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.keepUnused = d
		}
	}
}

// WithLogger sets the logger used for cache events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a Store and starts its expiry loop. Call Close on shutdown.
func New(opts ...Option) *Store {
	s := &Store{
		tags:       make(map[Tag]TagOptions),
		keepUnused: 60 * time.Second,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "cache")
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.entries = ttlcache.New[string, *entry](
		ttlcache.WithTTL[string, *entry](s.keepUnused),
	)
	s.wg.Add(1)
	go s.sweep(sweepInterval(s.keepUnused))
	return s
}

func sweepInterval(keep time.Duration) time.Duration {
	return min(max(keep/2, 10*time.Millisecond), 10*time.Second)
}

// sweep drops expired entries until the store is closed.
func (s *Store) sweep(every time.Duration) {
	defer s.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			s.entries.DeleteExpired()
			s.mu.Unlock()
		}
	}
}

// RegisterTag sets the refresh options of a tag. Tags that are never registered use zero options.
func (s *Store) RegisterTag(tag Tag, opts TagOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[tag] = opts
}

// Close stops background refetches and the expiry loop. In-flight requests are cancelled.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// State returns the current state of key. Unknown or expired keys are Uncached.
func (s *Store) State(key string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.entries.Get(key, ttlcache.WithDisableTouchOnHit[string, *entry]())
	if item == nil {
		return Uncached
	}
	return item.Value().state
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	return s.entries.Len()
}

// Request describes one cached query.
type Request[T any] struct {
	Key   string
	Tag   Tag
	Fetch func(ctx context.Context) (T, error)
}

func (r Request[T]) fetchFunc() FetchFunc {
	return func(ctx context.Context) (any, error) {
		v, err := r.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Query returns the cached value for req.Key, fetching it when it is not Fresh.
// If ctx ends first, the caller gets ctx.Err() while the shared request keeps running
// and still populates the cache.
func Query[T any](ctx context.Context, s *Store, req Request[T]) (T, error) {
	var zero T
	v, err := s.query(ctx, req.Key, req.Tag, req.fetchFunc())
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, req.Key, v)
	}
	return out, nil
}

func (s *Store) query(ctx context.Context, key string, tag Tag, fetch FetchFunc) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e := s.entryLocked(key, tag)
	e.fetch = fetch
	if e.state == Fresh {
		data := e.data
		s.mu.Unlock()
		s.metrics.query(tag, "hit")
		return data, nil
	}
	ch, shared := s.startFetchLocked(ctx, e)
	s.mu.Unlock()

	if shared {
		s.metrics.query(tag, "shared")
	} else {
		s.metrics.query(tag, "miss")
	}

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) entryLocked(key string, tag Tag) *entry {
	if item := s.entries.Get(key); item != nil {
		return item.Value()
	}
	e := &entry{
		key:     key,
		tag:     tag,
		flights: make(map[uint64]struct{}),
		subs:    make(map[*Subscription]struct{}),
	}
	s.entries.Set(key, e, ttlcache.DefaultTTL)
	return e
}

// pinLocked keeps entries with subscribers or requests in flight from expiring.
func (s *Store) pinLocked(e *entry) {
	ttl := ttlcache.DefaultTTL
	if len(e.subs) > 0 || len(e.flights) > 0 {
		ttl = ttlcache.NoTTL
	}
	s.entries.Set(e.key, e, ttl)
}

func flightKey(key string, gen uint64) string {
	return fmt.Sprintf("%s#%d", key, gen)
}

// startFetchLocked joins the request in flight for the entry's current generation,
// or starts one. The request runs detached from ctx cancellation and ends with the store.
func (s *Store) startFetchLocked(ctx context.Context, e *entry) (<-chan singleflight.Result, bool) {
	gen := e.gen
	_, shared := e.flights[gen]
	if !shared {
		e.flights[gen] = struct{}{}
		e.settle()
		s.pinLocked(e)
		s.notifyLocked(e)
		s.wg.Add(1)
	}

	fetch := e.fetch
	ch := s.group.DoChan(flightKey(e.key, gen), func() (any, error) {
		defer s.wg.Done()

		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(s.ctx, cancel)
		defer stop()

		s.log.Debug("fetch started", "key", e.key, "tag", e.tag, "gen", gen)
		v, err := fetch(fctx)
		s.complete(e, gen, v, err)
		return v, err
	})
	return ch, shared
}

func (s *Store) complete(e *entry, gen uint64, v any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(e.flights, gen)
	s.group.Forget(flightKey(e.key, gen))

	switch {
	case err != nil:
		s.log.Debug("fetch failed", "key", e.key, "tag", e.tag, "gen", gen, "error", err)
	case e.hasData && gen < e.storedGen:
		s.log.Debug("fetch result discarded", "key", e.key, "tag", e.tag, "gen", gen, "stored_gen", e.storedGen)
	default:
		e.data = v
		e.hasData = true
		e.storedGen = gen
	}

	e.settle()
	s.pinLocked(e)
	s.notifyLocked(e)
	s.metrics.fetch(e.tag, err)
}

// Invalidate marks every entry under the given tags stale.
func (s *Store) Invalidate(tags ...Tag) {
	set := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	s.invalidate("write", func(e *entry) bool {
		_, ok := set[e.tag]
		return ok
	})
}

// InvalidateKeys marks only the given query keys stale.
func (s *Store) InvalidateKeys(keys ...string) {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	s.invalidate("key", func(e *entry) bool {
		_, ok := set[e.key]
		return ok
	})
}

// Reconnected marks every entry whose tag opted into RefetchOnReconnect stale.
func (s *Store) Reconnected() {
	s.mu.Lock()
	opted := make(map[Tag]struct{})
	for tag, opts := range s.tags {
		if opts.RefetchOnReconnect {
			opted[tag] = struct{}{}
		}
	}
	s.mu.Unlock()

	s.invalidate("reconnect", func(e *entry) bool {
		_, ok := opted[e.tag]
		return ok
	})
}

func (s *Store) invalidate(trigger string, match func(*entry) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for _, item := range s.entries.Items() {
		e := item.Value()
		if !match(e) {
			continue
		}
		s.markStaleLocked(e)
		s.metrics.invalidated(e.tag, trigger)
		s.log.Debug("entry invalidated", "key", e.key, "tag", e.tag, "trigger", trigger, "gen", e.gen)

		if len(e.subs) > 0 && e.fetch != nil {
			s.startFetchLocked(s.ctx, e)
		}
	}
}

func (s *Store) markStaleLocked(e *entry) {
	e.gen++
	e.settle()
	s.notifyLocked(e)
}

// notifyLocked sends the current state to every subscriber, replacing any unread update.
func (s *Store) notifyLocked(e *entry) {
	for sub := range e.subs {
		select {
		case sub.updates <- e.state:
		default:
			select {
			case <-sub.updates:
			default:
			}
			select {
			case sub.updates <- e.state:
			default:
			}
		}
	}
}
