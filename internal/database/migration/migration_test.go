package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk/internal/database"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestEnsureMigrated(t *testing.T) {
	tests := []struct {
		name      string
		dialect   database.Dialect
		setup     func(mock sqlmock.Sqlmock)
		wantErr   string
		wantEvent string
	}{
		{
			name:    "postgres creates schema",
			dialect: database.Postgres,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT to_regclass('public.app_state')")).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_state").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantEvent: "db_migration_success",
		},
		{
			name:    "sqlite skips existing schema",
			dialect: database.SQLite,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sqlite_master").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantEvent: "db_migration_skip",
		},
		{
			name:    "sentinel error",
			dialect: database.SQLite,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sqlite_master").WillReturnError(errors.New("disk I/O error"))
			},
			wantErr:   "failed to check sentinel table: disk I/O error",
			wantEvent: "db_migration_failed",
		},
		{
			name:    "step error",
			dialect: database.SQLite,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sqlite_master").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_state").
					WillReturnError(errors.New("read-only database"))
			},
			wantErr:   "migration step create_table_app_state failed: read-only database",
			wantEvent: `"migration_step":"create_table_app_state"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			var buf bytes.Buffer
			err = EnsureMigrated(context.Background(), db, tt.dialect, newLogger(&buf))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.wantEvent)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnsureMigrated_UnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, "oracle", newLogger(&buf))
	assert.ErrorContains(t, err, `no migrations for dialect "oracle"`)
}

func TestEnsureMigrated_SkipKeepsEventName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	var buf bytes.Buffer
	require.NoError(t, EnsureMigrated(context.Background(), db, database.SQLite, newLogger(&buf)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	assert.Equal(t, "db_migration_skip", rec["msg"])
	assert.Equal(t, "schema already exists, skipping migration", rec["detail"])
}
