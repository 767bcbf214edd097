package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/rogersnm/todos/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestTodo_Validate_Valid(t *testing.T) {
	todo := &Todo{ID: id.FromInt(101), Task: "Buy groceries"}
	assert.NoError(t, todo.Validate())
}

func TestTodo_Validate_MissingID(t *testing.T) {
	todo := &Todo{Task: "Buy groceries"}
	assert.Error(t, todo.Validate())
}

func TestValidateTask(t *testing.T) {
	assert.NoError(t, ValidateTask("x"))
	assert.NoError(t, ValidateTask(strings.Repeat("a", MaxTaskLen)))
	// Length counts characters, not bytes.
	assert.NoError(t, ValidateTask(strings.Repeat("é", MaxTaskLen)))

	err := ValidateTask("")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "task", ve.Field)
	assert.Equal(t, "task should not be empty", ve.Error())

	err = ValidateTask(strings.Repeat("a", MaxTaskLen+1))
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Error(), "255")
}

func TestTodoUpdate_IsEmpty(t *testing.T) {
	assert.True(t, TodoUpdate{}.IsEmpty())
	assert.False(t, TodoUpdate{Task: ptr("x")}.IsEmpty())
	assert.False(t, TodoUpdate{Completed: ptr(false)}.IsEmpty())
}

func TestTodoUpdate_Apply_OnlySetFields(t *testing.T) {
	todo := Todo{ID: id.FromInt(1), Task: "Walk the dog", Completed: false}

	TodoUpdate{Completed: ptr(true)}.Apply(&todo)
	assert.Equal(t, "Walk the dog", todo.Task)
	assert.True(t, todo.Completed)

	TodoUpdate{Task: ptr("Walk the cat")}.Apply(&todo)
	assert.Equal(t, "Walk the cat", todo.Task)
	assert.True(t, todo.Completed)

	// Explicit false is a value, not an absence.
	TodoUpdate{Completed: ptr(false)}.Apply(&todo)
	assert.False(t, todo.Completed)

	TodoUpdate{}.Apply(&todo)
	assert.Equal(t, Todo{ID: id.FromInt(1), Task: "Walk the cat"}, todo)
}

func TestTodoUpdate_Validate(t *testing.T) {
	assert.NoError(t, TodoUpdate{}.Validate())
	assert.NoError(t, TodoUpdate{Completed: ptr(true)}.Validate())
	assert.Error(t, TodoUpdate{Task: ptr("")}.Validate())
}
