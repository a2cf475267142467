package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// runKVContract exercises the behaviour every backend must share
func runKVContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	got, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, kv.Set(ctx, "a", "2"))
	got, err = kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	require.NoError(t, kv.Delete(ctx, "a"))
	_, err = kv.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, kv.Delete(ctx, "never-set"))
}

func TestMemory_Contract(t *testing.T) {
	kv := NewMemory()
	defer kv.Close()
	runKVContract(t, kv)
}

func TestFile_Contract(t *testing.T) {
	kv, err := OpenFile(filepath.Join(t.TempDir(), "nested", "projects.yaml"))
	require.NoError(t, err)
	defer kv.Close()
	runKVContract(t, kv)
}

func TestFile_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	ctx := context.Background()

	first, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "savedPlugins", `[{"id":"1"}]`))

	second, err := OpenFile(path)
	require.NoError(t, err)
	got, err := second.Get(ctx, "savedPlugins")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0644))

	_, err := OpenFile(path)
	assert.ErrorContains(t, err, "failed to parse store file")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, models.StoreSettings{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, models.StoreSettings{Driver: "file", Path: filepath.Join(t.TempDir(), "p.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	_, err = Open(ctx, models.StoreSettings{Driver: "etcd"})
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Open(ctx, models.StoreSettings{Driver: "postgres"})
	assert.ErrorContains(t, err, "requires a dsn")

	_, err = Open(ctx, models.StoreSettings{Driver: "redis"})
	assert.ErrorContains(t, err, "requires an address")
}

func newMockSQL(t *testing.T, driver string) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQL(sqlx.NewDb(db, driver)), mock
}

func TestSQL_Migrate(t *testing.T) {
	s, mock := newMockSQL(t, "sqlite3")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_Get(t *testing.T) {
	s, mock := newMockSQL(t, "sqlite3")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT kv_value FROM kv WHERE kv_key = ?")).
		WithArgs("savedPlugins").
		WillReturnRows(sqlmock.NewRows([]string{"kv_value"}).AddRow("[]"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT kv_value FROM kv WHERE kv_key = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"kv_value"}))

	got, err := s.Get(context.Background(), "savedPlugins")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SetUsesOneTransaction(t *testing.T) {
	s, mock := newMockSQL(t, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE kv_key = $1")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv (kv_key, kv_value) VALUES ($1, $2)")).
		WithArgs("k", "v").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_SetRollsBackOnFailure(t *testing.T) {
	s, mock := newMockSQL(t, "mysql")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE kv_key = ?")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv")).
		WithArgs("k", "v").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_Delete(t *testing.T) {
	s, mock := newMockSQL(t, "sqlite3")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE kv_key = ?")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Contract(t *testing.T) {
	addr := os.Getenv("PLUGINGENIUS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PLUGINGENIUS_TEST_REDIS_ADDR not set")
	}

	kv, err := OpenRedis(context.Background(), addr, 0, "plugingenius-test:")
	require.NoError(t, err)
	defer kv.Close()
	runKVContract(t, kv)
}
