package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lawdesk/internal/apiclient"
)

// MockCollection implements service.FormCollection for any record type.
type MockCollection[T any] struct {
	mock.Mock
}

func (m *MockCollection[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCollection[T]) Get(ctx context.Context, id int64) (T, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) Create(ctx context.Context, partial any) (T, error) {
	args := m.Called(ctx, partial)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) Update(ctx context.Context, id int64, partial any) (T, error) {
	args := m.Called(ctx, id, partial)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) Delete(ctx context.Context, id int64) (apiclient.DeleteResult[int64], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(apiclient.DeleteResult[int64]), args.Error(1)
}

func (m *MockCollection[T]) CreateForm(ctx context.Context, mp apiclient.Multipart) (T, error) {
	args := m.Called(ctx, mp)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockCollection[T]) UpdateForm(ctx context.Context, id int64, mp apiclient.Multipart) (T, error) {
	args := m.Called(ctx, id, mp)
	return args.Get(0).(T), args.Error(1)
}

// StaticUser is a fixed UserSource.
type StaticUser int64

func (u StaticUser) CurrentUserID() int64 { return int64(u) }
