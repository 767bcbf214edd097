package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
)

// MemoryStore keeps todos in process, in insertion order.
type MemoryStore struct {
	mu     sync.Mutex
	policy id.Policy
	todos  []model.Todo
}

// compile-time check
var _ Store = (*MemoryStore)(nil)

func NewMemory(policy id.Policy) *MemoryStore {
	return &MemoryStore{policy: policy}
}

func (s *MemoryStore) Policy() id.Policy { return s.policy }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Create(_ context.Context, task string) (*model.Todo, error) {
	if err := model.ValidateTask(task); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tid, err := s.freshID()
	if err != nil {
		return nil, err
	}
	t := model.Todo{ID: tid, Task: task}
	s.todos = append(s.todos, t)
	return &t, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

func (s *MemoryStore) FindOne(_ context.Context, todoID id.ID) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(todoID)
	if i < 0 {
		return nil, notFound(todoID)
	}
	t := s.todos[i]
	return &t, nil
}

func (s *MemoryStore) Update(_ context.Context, todoID id.ID, upd model.TodoUpdate) (*model.Todo, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(todoID)
	if i < 0 {
		return nil, notFound(todoID)
	}
	upd.Apply(&s.todos[i])
	t := s.todos[i]
	return &t, nil
}

func (s *MemoryStore) Remove(_ context.Context, todoID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(todoID)
	if i < 0 {
		return notFound(todoID)
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return nil
}

// freshID asks the policy for ids until one is unused. Must hold s.mu.
func (s *MemoryStore) freshID() (id.ID, error) {
	const maxAttempts = 16
	for range maxAttempts {
		tid, err := s.policy.Next()
		if err != nil {
			return id.ID{}, err
		}
		if s.indexOf(tid) < 0 {
			return tid, nil
		}
	}
	return id.ID{}, fmt.Errorf("could not generate a unique id after %d attempts", maxAttempts)
}

func (s *MemoryStore) indexOf(todoID id.ID) int {
	for i := range s.todos {
		if s.todos[i].ID == todoID {
			return i
		}
	}
	return -1
}
