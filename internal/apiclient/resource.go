package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ID is the set of identifier types a resource can be addressed by.
type ID interface {
	~int | ~int64 | ~string
}

// DeleteResult reports the outcome of a delete call.
type DeleteResult[K ID] struct {
	Success bool `json:"success"`
	ID      K    `json:"id"`
}

// Resource is the CRUD surface of one REST collection, e.g. GET /caseDocuments.
type Resource[T any, K ID] struct {
	client *Client
	path   string
}

// NewResource binds a collection path segment to the client.
func NewResource[T any, K ID](c *Client, path string) *Resource[T, K] {
	return &Resource[T, K]{client: c, path: strings.Trim(path, "/")}
}

// Path returns the collection path segment.
func (r *Resource[T, K]) Path() string { return r.path }

// ItemPath returns the singular-record path with the id percent-encoded.
func (r *Resource[T, K]) ItemPath(id K) string {
	return r.path + "/" + url.PathEscape(fmt.Sprint(id))
}

// FetchAll issues GET /{resource}.
func (r *Resource[T, K]) FetchAll(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	if err := r.client.do(ctx, request{method: http.MethodGet, path: r.path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchByID issues GET /{resource}/{id}.
func (r *Resource[T, K]) FetchByID(ctx context.Context, id K) (T, error) {
	var out T
	err := r.client.do(ctx, request{method: http.MethodGet, path: r.ItemPath(id)}, &out)
	return out, err
}

// Create issues POST /{resource} with a JSON body. partial may be a struct or a map.
func (r *Resource[T, K]) Create(ctx context.Context, partial any) (T, error) {
	var out T
	body, err := jsonBody(partial)
	if err != nil {
		return out, err
	}
	err = r.client.do(ctx, request{
		method:      http.MethodPost,
		path:        r.path,
		body:        body,
		contentType: "application/json",
	}, &out)
	return out, err
}

// Update issues PUT /{resource}/{id} with a JSON body.
func (r *Resource[T, K]) Update(ctx context.Context, id K, partial any) (T, error) {
	var out T
	body, err := jsonBody(partial)
	if err != nil {
		return out, err
	}
	err = r.client.do(ctx, request{
		method:      http.MethodPut,
		path:        r.ItemPath(id),
		body:        body,
		contentType: "application/json",
	}, &out)
	return out, err
}

// Delete issues DELETE /{resource}/{id}. An empty 2xx body counts as success.
func (r *Resource[T, K]) Delete(ctx context.Context, id K) (DeleteResult[K], error) {
	var body struct {
		Success *bool `json:"success"`
	}
	if err := r.client.do(ctx, request{method: http.MethodDelete, path: r.ItemPath(id)}, &body); err != nil {
		return DeleteResult[K]{ID: id}, err
	}
	res := DeleteResult[K]{Success: true, ID: id}
	if body.Success != nil {
		res.Success = *body.Success
	}
	return res, nil
}

// CreateForm issues POST /{resource} as multipart/form-data.
func (r *Resource[T, K]) CreateForm(ctx context.Context, m Multipart) (T, error) {
	return r.sendForm(ctx, http.MethodPost, r.path, m)
}

// UpdateForm issues PUT /{resource}/{id} as multipart/form-data.
func (r *Resource[T, K]) UpdateForm(ctx context.Context, id K, m Multipart) (T, error) {
	return r.sendForm(ctx, http.MethodPut, r.ItemPath(id), m)
}

func (r *Resource[T, K]) sendForm(ctx context.Context, method, path string, m Multipart) (T, error) {
	var out T
	var buf bytes.Buffer
	contentType, err := m.encode(&buf)
	if err != nil {
		return out, err
	}
	err = r.client.do(ctx, request{
		method:      method,
		path:        path,
		body:        &buf,
		contentType: contentType,
	}, &out)
	return out, err
}
