package data

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	err := Init(dbPath)
	require.NoError(t, err)
	db, err := GetDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInit_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	err := Init(dbPath)
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestInit_EmptyPath(t *testing.T) {
	err := Init("")
	assert.Error(t, err)
}

func TestInit_SeedsReference(t *testing.T) {
	db := setupTestDB(t)

	state, err := GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(Reference())), state["use_case"])
	assert.Equal(t, int64(1), state["plan"])
	assert.Equal(t, int64(4), state["plan_component"])
	assert.Equal(t, int64(schemaVersion), state["schema_version"])
}

func TestInit_Idempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	require.NoError(t, Init(dbPath))
	assert.NoError(t, Init(dbPath))

	db, err := GetDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	state, err := GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(Reference())), state["use_case"], "second init must not seed again")
}

func TestInit_SQLitePrefix(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefixed.sqlite")
	require.NoError(t, Init("sqlite:"+dbPath))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestGetUseCases(t *testing.T) {
	db := setupTestDB(t)

	list, err := GetUseCases(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, Reference(), list)
}

func TestGetPlan(t *testing.T) {
	db := setupTestDB(t)

	p, err := GetPlan(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, ReferencePlan(), p)
}

func TestGetPlan_Missing(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.Exec("DELETE FROM plan")
	require.NoError(t, err)

	_, err = GetPlan(context.Background(), db)
	assert.Error(t, err)
}

func TestNilDB(t *testing.T) {
	ctx := context.Background()
	_, err := GetUseCases(ctx, nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetPlan(ctx, nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
	_, err = GetDataState(nil)
	assert.ErrorIs(t, err, errDBNotInitialized)
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	assert.Equal(t, q, rebind(driverSQLite, q))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind(driverPostgres, q))
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, driverPostgres, driverName("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, driverPostgres, driverName("postgresql://localhost/db"))
	assert.Equal(t, driverSQLite, driverName("/tmp/data.db"))
	assert.Equal(t, driverSQLite, driverName("sqlite:/tmp/x"))
}
