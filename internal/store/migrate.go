package store

import (
	"context"
	"fmt"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
	"gorm.io/gorm"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// schema holds the DDL for one dialect and id policy, applied in order.
type schema struct {
	up   []string
	down []string
}

var schemas = map[string]map[id.Kind]schema{
	DriverSQLite: {
		id.KindSequence: {
			up: []string{
				`CREATE TABLE IF NOT EXISTS todo (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					task VARCHAR(255) NOT NULL,
					completed BOOLEAN NOT NULL DEFAULT 0
				)`,
				// First assigned id is 101.
				`INSERT INTO sqlite_sequence (name, seq)
					SELECT 'todo', 100
					WHERE NOT EXISTS (SELECT 1 FROM sqlite_sequence WHERE name = 'todo')`,
			},
			down: []string{`DROP TABLE IF EXISTS todo`},
		},
		id.KindUUID: {
			up: []string{
				`CREATE TABLE IF NOT EXISTS todo (
					id VARCHAR(36) PRIMARY KEY,
					position INTEGER NOT NULL UNIQUE,
					task VARCHAR(255) NOT NULL,
					completed BOOLEAN NOT NULL DEFAULT 0
				)`,
			},
			down: []string{`DROP TABLE IF EXISTS todo`},
		},
	},
	DriverPostgres: {
		id.KindSequence: {
			up: []string{
				`CREATE SEQUENCE IF NOT EXISTS todo_id_seq AS BIGINT START WITH 101`,
				`CREATE TABLE IF NOT EXISTS todo (
					id BIGINT PRIMARY KEY DEFAULT nextval('todo_id_seq'),
					task VARCHAR(255) NOT NULL,
					completed BOOLEAN NOT NULL DEFAULT false
				)`,
				`ALTER SEQUENCE todo_id_seq OWNED BY todo.id`,
			},
			down: []string{
				`DROP TABLE IF EXISTS todo`,
				`DROP SEQUENCE IF EXISTS todo_id_seq`,
			},
		},
		id.KindUUID: {
			up: []string{
				`CREATE TABLE IF NOT EXISTS todo (
					id VARCHAR(36) PRIMARY KEY,
					position BIGINT NOT NULL UNIQUE,
					task VARCHAR(255) NOT NULL,
					completed BOOLEAN NOT NULL DEFAULT false
				)`,
			},
			down: []string{`DROP TABLE IF EXISTS todo`},
		},
	},
}

func schemaFor(db *gorm.DB, kind id.Kind) (schema, error) {
	dialect := db.Dialector.Name()
	byKind, ok := schemas[dialect]
	if !ok {
		return schema{}, fmt.Errorf("no schema for dialect %q", dialect)
	}
	sc, ok := byKind[kind]
	if !ok {
		return schema{}, fmt.Errorf("no %s schema for id policy %q", dialect, kind)
	}
	return sc, nil
}

// Migrate creates the todo table for the given id policy. It is idempotent.
func Migrate(ctx context.Context, db *gorm.DB, kind id.Kind) error {
	sc, err := schemaFor(db, kind)
	if err != nil {
		return err
	}
	return execAll(ctx, db, "migrate", sc.up)
}

// Rollback drops the todo table and anything Migrate created with it.
func Rollback(ctx context.Context, db *gorm.DB, kind id.Kind) error {
	sc, err := schemaFor(db, kind)
	if err != nil {
		return err
	}
	return execAll(ctx, db, "rollback", sc.down)
}

func execAll(ctx context.Context, db *gorm.DB, op string, stmts []string) error {
	return txError(op, db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return unavailable(op, err)
			}
		}
		return nil
	}))
}

// SeedTodos are the sample records inserted by Seed.
var SeedTodos = []model.Todo{
	{Task: "Grocery Shopping", Completed: false},
	{Task: "Book Doctor Appointment", Completed: true},
	{Task: "Pay Bills", Completed: false},
	{Task: "Pick up Dry Cleaning", Completed: true},
	{Task: "Call Mom", Completed: false},
	{Task: "Schedule Team Meeting", Completed: true},
	{Task: "Write Project Proposal", Completed: false},
	{Task: "Buy Birthday Gift for Dad", Completed: false},
	{Task: "Finish Reading Book", Completed: true},
	{Task: "Water the Plants", Completed: false},
}

// Seed inserts SeedTodos through s, in order, and returns the created records.
func Seed(ctx context.Context, s Store) ([]model.Todo, error) {
	var created []model.Todo
	for _, seed := range SeedTodos {
		t, err := s.Create(ctx, seed.Task)
		if err != nil {
			return created, fmt.Errorf("seeding %q: %w", seed.Task, err)
		}
		if seed.Completed {
			done := true
			t, err = s.Update(ctx, t.ID, model.TodoUpdate{Completed: &done})
			if err != nil {
				return created, fmt.Errorf("seeding %q: %w", seed.Task, err)
			}
		}
		created = append(created, *t)
	}
	return created, nil
}
