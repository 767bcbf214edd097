package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/markdown"
	"github.com/rogersnm/todos/internal/model"
)

// CheckoutDir is where checkout writes files, relative to the working directory.
const CheckoutDir = ".todos"

// fileMeta is the frontmatter of a checked-out todo. The task is the body.
type fileMeta struct {
	ID        id.ID `yaml:"id"`
	Completed bool  `yaml:"completed"`
}

// CheckoutPath returns destDir/<id>.md.
func CheckoutPath(destDir string, todoID id.ID) string {
	return filepath.Join(destDir, todoID.String()+".md")
}

// MarshalTodo renders t as frontmatter plus body, the checkout file format.
func MarshalTodo(t *model.Todo) ([]byte, error) {
	return markdown.Marshal(fileMeta{ID: t.ID, Completed: t.Completed}, t.Task)
}

// WriteTodo writes t to path as frontmatter plus body.
func WriteTodo(path string, t *model.Todo) error {
	data, err := MarshalTodo(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTodo parses a file written by WriteTodo.
func ReadTodo(path string) (*model.Todo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	meta, body, err := markdown.Parse[fileMeta](f)
	if err != nil {
		return nil, err
	}
	return &model.Todo{ID: meta.ID, Task: body, Completed: meta.Completed}, nil
}

// Checkout copies a todo to destDir/<id>.md and returns the local path.
func Checkout(ctx context.Context, s Store, todoID id.ID, destDir string) (string, error) {
	t, err := s.FindOne(ctx, todoID)
	if err != nil {
		return "", err
	}
	path := CheckoutPath(destDir, t.ID)
	if err := WriteTodo(path, t); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Checkin reads a checked-out file, applies the fields that changed as a
// partial update and removes the local file.
func Checkin(ctx context.Context, s Store, todoID id.ID, localPath string) (*model.Todo, error) {
	local, err := ReadTodo(localPath)
	if err != nil {
		return nil, fmt.Errorf("reading local file: %w", err)
	}
	if local.ID != todoID {
		return nil, fmt.Errorf("%s holds todo %s, not %s", localPath, local.ID, todoID)
	}
	if err := model.ValidateTask(local.Task); err != nil {
		return nil, err
	}

	current, err := s.FindOne(ctx, todoID)
	if err != nil {
		return nil, err
	}
	var upd model.TodoUpdate
	if local.Task != current.Task {
		upd.Task = &local.Task
	}
	if local.Completed != current.Completed {
		upd.Completed = &local.Completed
	}

	t, err := s.Update(ctx, todoID, upd)
	if err != nil {
		return nil, err
	}
	os.Remove(localPath)
	return t, nil
}
