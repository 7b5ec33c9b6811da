package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/repository"
)

func newRepo(t *testing.T) (*StateSQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStateSQL(db), mock
}

func TestStateSQL_Load(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM app_state WHERE key = ?").
			WithArgs("persist:root").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"user":{"user_id":3}}`))

		got, err := repo.Load(ctx, "persist:root")
		require.NoError(t, err)
		assert.JSONEq(t, `{"user":{"user_id":3}}`, string(got))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM app_state WHERE key = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM app_state WHERE key = ?").
			WithArgs("persist:root").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Load(ctx, "persist:root")
		assert.ErrorContains(t, err, "load persist:root: connection reset")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateSQL_Save(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	mock.ExpectExec("INSERT INTO app_state").
		WithArgs("persist:root", `{"user":null}`, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), "persist:root", []byte(`{"user":null}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateSQL_Delete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM app_state WHERE key = ?").
		WithArgs("persist:root").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "persist:root"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
