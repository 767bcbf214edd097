package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rogersnm/todos/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: DriverMemory, IDPolicy: id.KindUUID})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &MemoryStore{}, s)
	assert.Equal(t, id.KindUUID, s.Policy().Kind())
}

func TestOpen_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "todos.db")
	s, err := Open(context.Background(), Options{Driver: DriverSQLite, DSN: dsn, IDPolicy: id.KindSequence})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &SQLStore{}, s)
	assert.FileExists(t, dsn)
}

func TestOpen_Remote(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: DriverRemote, ServerURL: "http://localhost:3000"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteStore{}, s)
	assert.Equal(t, id.KindOpaque, s.Policy().Kind())
}

func TestOpen_RemoteNeedsURL(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverRemote})
	assert.Error(t, err)
}

func TestOpen_SQLNeedsDSN(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverSQLite, IDPolicy: id.KindSequence})
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
}

func TestOpen_UnknownPolicy(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverMemory, IDPolicy: "snowflake"})
	assert.Error(t, err)
}

func TestDrivers_Sorted(t *testing.T) {
	assert.Equal(t, []string{"memory", "postgres", "remote", "sqlite"}, Drivers())
}

func TestIsSQL(t *testing.T) {
	assert.True(t, IsSQL(DriverSQLite))
	assert.True(t, IsSQL(DriverPostgres))
	assert.False(t, IsSQL(DriverMemory))
	assert.False(t, IsSQL(DriverRemote))
}
