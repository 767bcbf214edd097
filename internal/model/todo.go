package model

import (
	"fmt"
	"unicode/utf8"

	"github.com/rogersnm/todos/internal/id"
)

// MaxTaskLen is the maximum task length in characters.
const MaxTaskLen = 255

type Todo struct {
	ID        id.ID  `json:"id" yaml:"id"`
	Task      string `json:"task" yaml:"-"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TodoUpdate is a partial update. A nil field is left untouched.
type TodoUpdate struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the update sets no fields.
func (u TodoUpdate) IsEmpty() bool {
	return u.Task == nil && u.Completed == nil
}

func (u TodoUpdate) Validate() error {
	if u.Task != nil {
		return ValidateTask(*u.Task)
	}
	return nil
}

// Apply merges the set fields of u into t.
func (u TodoUpdate) Apply(t *Todo) {
	if u.Task != nil {
		t.Task = *u.Task
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
}

func (t *Todo) Validate() error {
	if t.ID.IsZero() {
		return &ValidationError{Field: "id", Msg: "id is required"}
	}
	return ValidateTask(t.Task)
}

// ValidateTask enforces the task constraints: non-empty, at most MaxTaskLen
// characters.
func ValidateTask(task string) error {
	if task == "" {
		return &ValidationError{Field: "task", Msg: "task should not be empty"}
	}
	if utf8.RuneCountInString(task) > MaxTaskLen {
		return &ValidationError{
			Field: "task",
			Msg:   fmt.Sprintf("task must be shorter than or equal to %d characters", MaxTaskLen),
		}
	}
	return nil
}

// ValidationError reports a field that fails its constraints.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
