package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/apiclient"
	"lawdesk/internal/cache"
	"lawdesk/internal/model"
)

type backend struct {
	gets   atomic.Int32
	posts  atomic.Int32
	status int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		b.gets.Add(1)
		if r.URL.Path == "/cases/4" {
			io.WriteString(w, `{"case_id":4,"case_number":"CR-00004"}`)
			return
		}
		io.WriteString(w, `[{"case_id":4,"case_number":"CR-00004"}]`)
	case http.MethodPost:
		b.posts.Add(1)
		if b.status != 0 {
			w.WriteHeader(b.status)
			io.WriteString(w, `{"message":"rejected"}`)
			return
		}
		io.WriteString(w, `{"case_id":5}`)
	case http.MethodDelete:
		io.WriteString(w, `{"success":true,"id":4}`)
	}
}

func newTestRegistry(t *testing.T, b *backend) (*Registry, *cache.Store) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	store := cache.New()
	t.Cleanup(store.Close)
	return New(c, store), store
}

func TestSlice_ListIsCached(t *testing.T) {
	b := &backend{}
	reg, store := newTestRegistry(t, b)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cases, err := reg.Cases.List(ctx)
		require.NoError(t, err)
		require.Len(t, cases, 1)
	}
	assert.Equal(t, int32(1), b.gets.Load())
	assert.Equal(t, cache.Fresh, store.State(reg.Cases.ListKey()))
}

func TestSlice_Get(t *testing.T) {
	b := &backend{}
	reg, store := newTestRegistry(t, b)

	c, err := reg.Cases.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "CR-00004", c.CaseNumber)
	assert.Equal(t, "cases/4", reg.Cases.ItemKey(4))
	assert.Equal(t, cache.Fresh, store.State("cases/4"))
}

func TestSlice_SuccessfulWriteInvalidatesTag(t *testing.T) {
	b := &backend{}
	reg, store := newTestRegistry(t, b)
	ctx := context.Background()

	_, err := reg.Cases.List(ctx)
	require.NoError(t, err)
	_, err = reg.Cases.Get(ctx, 4)
	require.NoError(t, err)
	_, err = reg.Tickets.List(ctx)
	require.NoError(t, err)

	_, err = reg.Cases.Create(ctx, map[string]any{"case_type": "civil"})
	require.NoError(t, err)

	assert.Equal(t, cache.Stale, store.State("cases"))
	assert.Equal(t, cache.Stale, store.State("cases/4"))
	assert.Equal(t, cache.Fresh, store.State("tickets"))

	_, err = reg.Cases.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Fresh, store.State("cases"))
}

func TestSlice_FailedWriteInvalidatesNothing(t *testing.T) {
	b := &backend{status: http.StatusUnprocessableEntity}
	reg, store := newTestRegistry(t, b)
	ctx := context.Background()

	_, err := reg.Cases.List(ctx)
	require.NoError(t, err)

	_, err = reg.Cases.Create(ctx, map[string]any{})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)

	assert.Equal(t, cache.Fresh, store.State("cases"))
	assert.Equal(t, int32(1), b.posts.Load())
}

func TestSlice_Delete(t *testing.T) {
	b := &backend{}
	reg, store := newTestRegistry(t, b)
	ctx := context.Background()

	_, err := reg.Cases.List(ctx)
	require.NoError(t, err)

	res, err := reg.Cases.Delete(ctx, 4)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(4), res.ID)
	assert.Equal(t, cache.Stale, store.State("cases"))
}

func TestSlice_MountRefetchesOptedInTag(t *testing.T) {
	b := &backend{}
	reg, store := newTestRegistry(t, b)
	ctx := context.Background()

	_, err := reg.Documents.List(ctx)
	require.NoError(t, err)

	sub, err := reg.Documents.Mount()
	require.NoError(t, err)
	defer sub.Close()

	assert.Equal(t, cache.Stale, store.State("documents"))
	_, err = reg.Documents.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), b.gets.Load())
}

func TestSlice_Poll(t *testing.T) {
	b := &backend{}
	reg, _ := newTestRegistry(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- reg.Cases.Poll(ctx, 20*time.Millisecond, func(cases []model.Case, err error) {
			assert.NoError(t, err)
			if calls.Add(1) == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poll did not stop")
	}
	assert.GreaterOrEqual(t, b.gets.Load(), int32(3))
}

func TestRegistry_Tags(t *testing.T) {
	reg, _ := newTestRegistry(t, &backend{})

	tests := []struct {
		name string
		got  cache.Tag
		key  string
		want cache.Tag
		path string
	}{
		{"cases", reg.Cases.Tag(), reg.Cases.ListKey(), TagCase, "cases"},
		{"case documents", reg.CaseDocuments.Tag(), reg.CaseDocuments.ListKey(), TagCaseDocument, "caseDocuments"},
		{"documents", reg.Documents.Tag(), reg.Documents.ListKey(), TagDocument, "documents"},
		{"appointments", reg.Appointments.Tag(), reg.Appointments.ListKey(), TagAppointment, "appointments"},
		{"tickets", reg.Tickets.Tag(), reg.Tickets.ListKey(), TagTicket, "tickets"},
		{"logs", reg.Logs.Tag(), reg.Logs.ListKey(), TagLog, "logs"},
		{"users", reg.Users.Tag(), reg.Users.ListKey(), TagUser, "users"},
		{"lawyers", reg.Lawyers.Tag(), reg.Lawyers.ListKey(), TagLawyer, "lawyers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
			assert.Equal(t, tt.path, tt.key)
		})
	}
}
