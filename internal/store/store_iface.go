package store

import (
	"context"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
)

// Store owns the todo collection. MemoryStore keeps it in process, SQLStore
// in a relational table and RemoteStore behind the todos HTTP API.
//
// Every implementation serializes its operations, returns *NotFoundError for
// unknown ids and *StorageError when its backend cannot complete a call.
type Store interface {
	Create(ctx context.Context, task string) (*model.Todo, error)
	FindAll(ctx context.Context) ([]model.Todo, error)
	FindOne(ctx context.Context, todoID id.ID) (*model.Todo, error)
	Update(ctx context.Context, todoID id.ID, upd model.TodoUpdate) (*model.Todo, error)
	Remove(ctx context.Context, todoID id.ID) error

	// Policy parses ids in the shape this store expects.
	Policy() id.Policy
	Close() error
}
