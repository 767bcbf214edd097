//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a live PostgreSQL database. They drop and recreate
// the todo table, so point them at a scratch database.
// Set TODOS_TEST_POSTGRES_DSN, e.g.
// "host=localhost user=postgres password=postgres dbname=todos_test sslmode=disable".
//
// Run: go test -tags integration ./internal/store/ -v

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TODOS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TODOS_TEST_POSTGRES_DSN not set, skipping integration tests")
	}
	return dsn
}

func openPostgres(t *testing.T, kind id.Kind) *SQLStore {
	t.Helper()
	ctx := context.Background()
	dsn := getTestDSN(t)

	db, err := OpenDB(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	for _, k := range []id.Kind{id.KindSequence, id.KindUUID} {
		require.NoError(t, Rollback(ctx, db, k))
	}
	require.NoError(t, closeDB(db))

	p, err := id.New(kind)
	require.NoError(t, err)
	s, err := OpenSQL(ctx, DriverPostgres, dsn, p)
	require.NoError(t, err)
	t.Cleanup(func() {
		Rollback(ctx, s.DB(), kind)
		s.Close()
	})
	return s
}

func TestPostgres_Sequence_Lifecycle(t *testing.T) {
	s := openPostgres(t, id.KindSequence)
	ctx := context.Background()

	a, err := s.Create(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, id.FromInt(101), a.ID)
	b, err := s.Create(ctx, "B")
	require.NoError(t, err)
	c, err := s.Create(ctx, "C")
	require.NoError(t, err)

	done := true
	b2, err := s.Update(ctx, b.ID, model.TodoUpdate{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "B", b2.Task)
	assert.True(t, b2.Completed)

	require.NoError(t, s.Remove(ctx, b.ID))
	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{*a, *c}, all)

	d, err := s.Create(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, id.FromInt(104), d.ID)

	_, err = s.FindOne(ctx, b.ID)
	assert.True(t, IsNotFound(err))
}

func TestPostgres_Sequence_IDBeyondInt32(t *testing.T) {
	s := openPostgres(t, id.KindSequence)
	ctx := context.Background()

	big := id.FromInt(9999999999)
	_, err := s.FindOne(ctx, big)
	assert.True(t, IsNotFound(err), "got %v", err)
	_, err = s.Update(ctx, big, model.TodoUpdate{})
	assert.True(t, IsNotFound(err), "got %v", err)
	assert.True(t, IsNotFound(s.Remove(ctx, big)))
}

func TestPostgres_UUID_Lifecycle(t *testing.T) {
	s := openPostgres(t, id.KindUUID)
	ctx := context.Background()

	var created []model.Todo
	for _, task := range []string{"A", "B", "C"} {
		c, err := s.Create(ctx, task)
		require.NoError(t, err)
		assert.Regexp(t, uuidV4, c.ID.String())
		created = append(created, *c)
	}

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, created, all)

	_, err = s.Update(ctx, missingID(id.KindUUID), model.TodoUpdate{})
	assert.True(t, IsNotFound(err))
}

func TestPostgres_Seed(t *testing.T) {
	s := openPostgres(t, id.KindSequence)
	ctx := context.Background()

	seeded, err := Seed(ctx, s)
	require.NoError(t, err)
	require.Len(t, seeded, len(SeedTodos))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	for i, todo := range all {
		assert.Equal(t, SeedTodos[i].Task, todo.Task)
		assert.Equal(t, SeedTodos[i].Completed, todo.Completed)
	}
}
