// Package service implements the screens' workflows on top of the cached resource slices:
// create forms with context injection, searchable lists, joins and reports.
package service

import (
	"context"

	"lawdesk/internal/apiclient"
)

// Lister reads a whole collection.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Collection is the JSON CRUD surface of one resource slice.
type Collection[T any] interface {
	Lister[T]
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, partial any) (T, error)
	Update(ctx context.Context, id int64, partial any) (T, error)
	Delete(ctx context.Context, id int64) (apiclient.DeleteResult[int64], error)
}

// FormCollection adds multipart writes.
type FormCollection[T any] interface {
	Collection[T]
	CreateForm(ctx context.Context, m apiclient.Multipart) (T, error)
	UpdateForm(ctx context.Context, id int64, m apiclient.Multipart) (T, error)
}

// UserSource supplies the id injected into create payloads.
type UserSource interface {
	CurrentUserID() int64
}
