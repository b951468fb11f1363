package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey        = "agenda_oxum_apiKey"
	fmtUnmetExpect = "unmet expectations: %v"
)

var (
	selectQuery = regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")
	upsertQuery = regexp.QuoteMeta("INSERT INTO kv_entries (key,value) VALUES ($1,$2) ON CONFLICT (key) DO UPDATE")
	deleteQuery = regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = $1")
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestStore_Get_Found(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(selectQuery).
		WithArgs(testKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("secret"))

	value, ok, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret", value)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf(fmtUnmetExpect, err)
	}
}

func TestStore_Get_NoRows(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(selectQuery).
		WithArgs(testKey).
		WillReturnError(sql.ErrNoRows)

	value, ok, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf(fmtUnmetExpect, err)
	}
}

func TestStore_Get_DBError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(selectQuery).
		WithArgs(testKey).
		WillReturnError(errors.New("db error"))

	_, _, err := store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading")
}

func TestStore_Set_Upserts(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(upsertQuery).
		WithArgs(testKey, "secret").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), testKey, "secret"))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf(fmtUnmetExpect, err)
	}
}

func TestStore_Set_DBError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(upsertQuery).
		WithArgs(testKey, "secret").
		WillReturnError(errors.New("db error"))

	err := store.Set(context.Background(), testKey, "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing")
}

func TestStore_Remove(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(deleteQuery).
		WithArgs(testKey).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Remove(context.Background(), testKey))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf(fmtUnmetExpect, err)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_kv_entries.up.sql")
	assert.Contains(t, names, "000001_kv_entries.down.sql")
}
