package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	tagDocs  Tag = "CaseDocument"
	tagCases Tag = "Case"
)

// counter is a fetch func that returns its call number.
type counter struct {
	calls atomic.Int32
}

func (c *counter) request(key string, tag Tag) Request[int] {
	return Request[int]{
		Key: key,
		Tag: tag,
		Fetch: func(ctx context.Context) (int, error) {
			return int(c.calls.Add(1)), nil
		},
	}
}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(opts...)
	t.Cleanup(s.Close)
	return s
}

func TestQuery_UncachedToFresh(t *testing.T) {
	s := newStore(t)
	var c counter
	req := c.request("caseDocuments", tagDocs)
	ctx := context.Background()

	assert.Equal(t, Uncached, s.State("caseDocuments"))

	v, err := Query(ctx, s, req)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, Fresh, s.State("caseDocuments"))

	v, err = Query(ctx, s, req)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "fresh entry is served from cache")
	assert.Equal(t, int32(1), c.calls.Load())
}

func TestQuery_ConcurrentReadsShareOneRequest(t *testing.T) {
	s := newStore(t)

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	req := Request[string]{
		Key: "caseDocuments",
		Tag: tagDocs,
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			<-release
			return "docs", nil
		},
	}

	const readers = 10
	var wg sync.WaitGroup
	results := make(chan string, readers)
	read := func() {
		defer wg.Done()
		v, err := Query(context.Background(), s, req)
		assert.NoError(t, err)
		results <- v
	}

	wg.Add(1)
	go read()
	<-started
	assert.Equal(t, Fetching, s.State("caseDocuments"))

	wg.Add(readers - 1)
	for i := 1; i < readers; i++ {
		go read()
	}
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		assert.Equal(t, "docs", v)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestInvalidate_IsTagWide(t *testing.T) {
	s := newStore(t)
	var docs, cases counter
	ctx := context.Background()

	list := docs.request("caseDocuments", tagDocs)
	byID := docs.request("caseDocuments/7", tagDocs)
	other := cases.request("cases", tagCases)

	for _, r := range []Request[int]{list, byID, other} {
		_, err := Query(ctx, s, r)
		require.NoError(t, err)
	}
	require.Equal(t, int32(2), docs.calls.Load())

	s.Invalidate(tagDocs)

	assert.Equal(t, Stale, s.State("caseDocuments"))
	assert.Equal(t, Stale, s.State("caseDocuments/7"))
	assert.Equal(t, Fresh, s.State("cases"))

	v, err := Query(ctx, s, list)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	v, err = Query(ctx, s, byID)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	_, err = Query(ctx, s, other)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cases.calls.Load())
}

func TestInvalidateKeys_OnlyTouchesGivenKeys(t *testing.T) {
	s := newStore(t)
	var c counter
	ctx := context.Background()

	_, err := Query(ctx, s, c.request("caseDocuments", tagDocs))
	require.NoError(t, err)
	_, err = Query(ctx, s, c.request("caseDocuments/7", tagDocs))
	require.NoError(t, err)

	s.InvalidateKeys("caseDocuments/7")

	assert.Equal(t, Fresh, s.State("caseDocuments"))
	assert.Equal(t, Stale, s.State("caseDocuments/7"))
}

func TestQuery_InvalidatedWhileFetchingStaysStale(t *testing.T) {
	s := newStore(t)

	var calls atomic.Int32
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	req := Request[int32]{
		Key: "cases",
		Tag: tagCases,
		Fetch: func(ctx context.Context) (int32, error) {
			n := calls.Add(1)
			started <- struct{}{}
			if n == 1 {
				<-release
			}
			return n, nil
		},
	}

	done := make(chan int32)
	go func() {
		v, _ := Query(context.Background(), s, req)
		done <- v
	}()
	<-started

	s.Invalidate(tagCases)
	close(release)
	assert.Equal(t, int32(1), <-done)

	assert.Equal(t, Stale, s.State("cases"))

	v, err := Query(context.Background(), s, req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
	assert.Equal(t, Fresh, s.State("cases"))
}

func TestQuery_OlderResultDoesNotOverwriteNewer(t *testing.T) {
	s := newStore(t)

	var calls atomic.Int32
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	req := Request[string]{
		Key: "cases",
		Tag: tagCases,
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-releaseFirst
				return "old", nil
			}
			return "new", nil
		},
	}

	oldDone := make(chan string)
	go func() {
		v, _ := Query(context.Background(), s, req)
		oldDone <- v
	}()
	<-firstStarted

	s.Invalidate(tagCases)

	v, err := Query(context.Background(), s, req)
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.Equal(t, Fresh, s.State("cases"))

	close(releaseFirst)
	assert.Equal(t, "old", <-oldDone, "the caller still receives its own response")

	v, err = Query(context.Background(), s, req)
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQuery_ErrorIsNotCached(t *testing.T) {
	s := newStore(t)
	boom := errors.New("backend down")

	var calls atomic.Int32
	req := Request[string]{
		Key: "tickets",
		Tag: "Ticket",
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", boom
			}
			return "ok", nil
		},
	}

	_, err := Query(context.Background(), s, req)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Uncached, s.State("tickets"))

	v, err := Query(context.Background(), s, req)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestQuery_CallerCancelDoesNotAbortFetch(t *testing.T) {
	s := newStore(t)

	started := make(chan struct{})
	release := make(chan struct{})
	req := Request[string]{
		Key: "logs",
		Tag: "Log",
		Fetch: func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "entries", ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		_, err := Query(ctx, s, req)
		errCh <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	assert.Eventually(t, func() bool { return s.State("logs") == Fresh }, time.Second, 5*time.Millisecond)
}

func TestQuery_TypeMismatch(t *testing.T) {
	s := newStore(t)
	var c counter
	_, err := Query(context.Background(), s, c.request("users", "User"))
	require.NoError(t, err)

	_, err = Query(context.Background(), s, Request[string]{
		Key:   "users",
		Tag:   "User",
		Fetch: func(ctx context.Context) (string, error) { return "", nil },
	})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSubscribe_RefetchesInBackgroundAfterInvalidate(t *testing.T) {
	s := newStore(t)
	var c counter
	req := c.request("caseDocuments", tagDocs)

	sub, err := Subscribe(s, req)
	require.NoError(t, err)
	defer sub.Close()
	assert.Equal(t, "caseDocuments", sub.Key())

	_, err = Query(context.Background(), s, req)
	require.NoError(t, err)

	s.Invalidate(tagDocs)

	assert.Eventually(t, func() bool {
		return c.calls.Load() == 2 && s.State("caseDocuments") == Fresh
	}, time.Second, 5*time.Millisecond)

	v, err := Query(context.Background(), s, req)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSubscribe_UpdatesReportTransitions(t *testing.T) {
	s := newStore(t)
	var c counter
	req := c.request("appointments", "Appointment")

	sub, err := Subscribe(s, req)
	require.NoError(t, err)

	_, err = Query(context.Background(), s, req)
	require.NoError(t, err)
	assert.Equal(t, Fresh, <-sub.Updates(), "only the latest state is kept")

	sub.Close()
	sub.Close()
	_, open := <-sub.Updates()
	assert.False(t, open)
}

func TestSubscribe_RefetchOnMount(t *testing.T) {
	s := newStore(t)
	s.RegisterTag("Document", TagOptions{RefetchOnMount: true})
	var docs, cases counter
	ctx := context.Background()

	docReq := docs.request("documents", "Document")
	caseReq := cases.request("cases", tagCases)
	_, err := Query(ctx, s, docReq)
	require.NoError(t, err)
	_, err = Query(ctx, s, caseReq)
	require.NoError(t, err)

	docSub, err := Subscribe(s, docReq)
	require.NoError(t, err)
	defer docSub.Close()
	caseSub, err := Subscribe(s, caseReq)
	require.NoError(t, err)
	defer caseSub.Close()

	assert.Equal(t, Stale, s.State("documents"))
	assert.Equal(t, Fresh, s.State("cases"))

	v, err := Query(ctx, s, docReq)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestReconnected_OnlyOptedInTags(t *testing.T) {
	s := newStore(t)
	s.RegisterTag(tagDocs, TagOptions{RefetchOnReconnect: true})
	var c counter
	ctx := context.Background()

	_, err := Query(ctx, s, c.request("caseDocuments", tagDocs))
	require.NoError(t, err)
	_, err = Query(ctx, s, c.request("cases", tagCases))
	require.NoError(t, err)

	s.Reconnected()

	assert.Equal(t, Stale, s.State("caseDocuments"))
	assert.Equal(t, Fresh, s.State("cases"))
}

func TestStore_UnusedEntriesExpire(t *testing.T) {
	s := newStore(t, WithKeepUnusedFor(50*time.Millisecond))
	var c counter

	_, err := Query(context.Background(), s, c.request("lawyers", "Lawyer"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	assert.Eventually(t, func() bool { return s.State("lawyers") == Uncached }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_SubscribedEntriesDoNotExpire(t *testing.T) {
	s := newStore(t, WithKeepUnusedFor(50*time.Millisecond))
	var c counter
	req := c.request("lawyers", "Lawyer")

	sub, err := Subscribe(s, req)
	require.NoError(t, err)
	defer sub.Close()
	_, err = Query(context.Background(), s, req)
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, Fresh, s.State("lawyers"))
}

func TestStore_Closed(t *testing.T) {
	s := New()
	s.Close()
	s.Close()

	var c counter
	_, err := Query(context.Background(), s, c.request("cases", tagCases))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = Subscribe(s, c.request("cases", tagCases))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_CloseStopsExpiryLoop(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := New(WithKeepUnusedFor(20 * time.Millisecond))
		s.Close()
	}
	goleak.VerifyNone(t)
}

func TestStore_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	s := newStore(t, WithMetrics(m))
	var c counter
	req := c.request("cases", tagCases)

	_, err = Query(context.Background(), s, req)
	require.NoError(t, err)
	_, err = Query(context.Background(), s, req)
	require.NoError(t, err)
	s.Invalidate(tagCases)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("Case", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("Case", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("Case", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations.WithLabelValues("Case", "write")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uncached", Uncached.String())
	assert.Equal(t, "fresh", Fresh.String())
	assert.Equal(t, "stale", Stale.String())
	assert.Equal(t, "fetching", Fetching.String())
	assert.Equal(t, "unknown", State(42).String())
}
