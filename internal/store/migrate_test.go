package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rogersnm/todos/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	defer closeDB(db)

	require.NoError(t, Migrate(ctx, db, id.KindSequence))
	require.NoError(t, Migrate(ctx, db, id.KindSequence))

	s, err := NewSQL(db, id.NewSequence(id.SequenceBaseline))
	require.NoError(t, err)
	created, err := s.Create(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, id.FromInt(101), created.ID)
}

func TestMigrate_SucceedsOnFreshDatabase(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []id.Kind{id.KindSequence, id.KindUUID} {
		t.Run(string(kind), func(t *testing.T) {
			db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "todos.db"))
			require.NoError(t, err)
			defer closeDB(db)

			require.NoError(t, Migrate(ctx, db, kind))
			assert.True(t, db.Migrator().HasTable(tableName))
			require.NoError(t, Rollback(ctx, db, kind))
		})
	}
}

func TestTxError(t *testing.T) {
	assert.NoError(t, txError("migrate", nil))

	nf := notFound(id.FromInt(7))
	assert.Same(t, nf, txError("update", nf))

	err := txError("create", errors.New("commit failed"))
	assert.True(t, IsUnavailable(err))
	assert.EqualError(t, err, "storage unavailable: create: commit failed")
}

func TestRollback_DropsTable(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	defer closeDB(db)

	require.NoError(t, Migrate(ctx, db, id.KindUUID))
	assert.True(t, db.Migrator().HasTable(tableName))

	require.NoError(t, Rollback(ctx, db, id.KindUUID))
	assert.False(t, db.Migrator().HasTable(tableName))

	s, err := NewSQL(db, id.UUID{})
	require.NoError(t, err)
	_, err = s.FindAll(ctx)
	assert.True(t, IsUnavailable(err))
}

func TestRollback_ResetsSequence(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	defer closeDB(db)

	require.NoError(t, Migrate(ctx, db, id.KindSequence))
	s, err := NewSQL(db, id.NewSequence(id.SequenceBaseline))
	require.NoError(t, err)
	_, err = s.Create(ctx, "A")
	require.NoError(t, err)

	require.NoError(t, Rollback(ctx, db, id.KindSequence))
	require.NoError(t, Migrate(ctx, db, id.KindSequence))

	created, err := s.Create(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, id.FromInt(101), created.ID)
}

func TestSchemaFor_UnknownPolicy(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	defer closeDB(db)

	assert.Error(t, Migrate(ctx, db, id.KindOpaque))
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	_, err := OpenDB(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	for _, kind := range []id.Kind{id.KindSequence, id.KindUUID} {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			s := openSQLite(t, kind)

			seeded, err := Seed(ctx, s)
			require.NoError(t, err)
			require.Len(t, seeded, 10)

			all, err := s.FindAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, seeded, all)
			for i, todo := range all {
				assert.Equal(t, SeedTodos[i].Task, todo.Task)
				assert.Equal(t, SeedTodos[i].Completed, todo.Completed)
			}
			if kind == id.KindSequence {
				assert.Equal(t, id.FromInt(101), all[0].ID)
				assert.Equal(t, id.FromInt(110), all[9].ID)
			}
		})
	}
}

func TestSeed_StopsOnError(t *testing.T) {
	s := NewMemory(id.Opaque{})
	seeded, err := Seed(context.Background(), s)
	require.Error(t, err)
	assert.Empty(t, seeded)
	assert.Contains(t, err.Error(), `seeding "Grocery Shopping"`)
}
