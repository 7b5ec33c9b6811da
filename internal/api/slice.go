// Package api defines one cached slice per backend resource. Reads go through the
// shared cache.Store and carry the slice tag. Writes hit the backend first and,
// only when they succeed, invalidate that tag.
package api

import (
	"context"
	"time"

	"lawdesk/internal/apiclient"
	"lawdesk/internal/cache"
)

// Slice binds a REST collection to a cache tag.
// Slices returned by List are shared with the cache and must not be mutated.
type Slice[T any, K apiclient.ID] struct {
	res   *apiclient.Resource[T, K]
	store *cache.Store
	tag   cache.Tag
}

// NewSlice creates a slice and registers its tag options with the store.
func NewSlice[T any, K apiclient.ID](c *apiclient.Client, store *cache.Store, path string, tag cache.Tag, opts cache.TagOptions) *Slice[T, K] {
	store.RegisterTag(tag, opts)
	return &Slice[T, K]{
		res:   apiclient.NewResource[T, K](c, path),
		store: store,
		tag:   tag,
	}
}

// Tag returns the cache tag of the slice.
func (s *Slice[T, K]) Tag() cache.Tag { return s.tag }

// ListKey is the cache key of the collection query.
func (s *Slice[T, K]) ListKey() string { return s.res.Path() }

// ItemKey is the cache key of a singular-record query.
func (s *Slice[T, K]) ItemKey(id K) string { return s.res.ItemPath(id) }

func (s *Slice[T, K]) listRequest() cache.Request[[]T] {
	return cache.Request[[]T]{
		Key:   s.ListKey(),
		Tag:   s.tag,
		Fetch: s.res.FetchAll,
	}
}

// List returns every record of the collection.
func (s *Slice[T, K]) List(ctx context.Context) ([]T, error) {
	return cache.Query(ctx, s.store, s.listRequest())
}

// Get returns one record.
func (s *Slice[T, K]) Get(ctx context.Context, id K) (T, error) {
	return cache.Query(ctx, s.store, cache.Request[T]{
		Key: s.ItemKey(id),
		Tag: s.tag,
		Fetch: func(ctx context.Context) (T, error) {
			return s.res.FetchByID(ctx, id)
		},
	})
}

// Create posts a JSON record.
func (s *Slice[T, K]) Create(ctx context.Context, partial any) (T, error) {
	out, err := s.res.Create(ctx, partial)
	return out, s.settle(err)
}

// Update puts a JSON record.
func (s *Slice[T, K]) Update(ctx context.Context, id K, partial any) (T, error) {
	out, err := s.res.Update(ctx, id, partial)
	return out, s.settle(err)
}

// Delete removes a record.
func (s *Slice[T, K]) Delete(ctx context.Context, id K) (apiclient.DeleteResult[K], error) {
	out, err := s.res.Delete(ctx, id)
	return out, s.settle(err)
}

// CreateForm posts a multipart record.
func (s *Slice[T, K]) CreateForm(ctx context.Context, m apiclient.Multipart) (T, error) {
	out, err := s.res.CreateForm(ctx, m)
	return out, s.settle(err)
}

// UpdateForm puts a multipart record.
func (s *Slice[T, K]) UpdateForm(ctx context.Context, id K, m apiclient.Multipart) (T, error) {
	out, err := s.res.UpdateForm(ctx, id, m)
	return out, s.settle(err)
}

// settle invalidates the slice tag after a successful write.
func (s *Slice[T, K]) settle(err error) error {
	if err != nil {
		return err
	}
	s.store.Invalidate(s.tag)
	return nil
}

// Mount subscribes a consumer to the collection query. Close the subscription on unmount.
func (s *Slice[T, K]) Mount() (*cache.Subscription, error) {
	return cache.Subscribe(s.store, s.listRequest())
}

// Poll keeps the collection mounted and refreshes it every interval, handing each
// result to fn. It blocks until ctx is done.
func (s *Slice[T, K]) Poll(ctx context.Context, interval time.Duration, fn func([]T, error)) error {
	sub, err := s.Mount()
	if err != nil {
		return err
	}
	defer sub.Close()

	fn(s.List(ctx))

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.store.InvalidateKeys(s.ListKey())
			fn(s.List(ctx))
		}
	}
}
