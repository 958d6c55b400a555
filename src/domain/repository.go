package domain

import (
	"context"
	"errors"
)

var (
	// ErrTodoNotFound is returned when the store holds no record for the id.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrDuplicateKey is returned when a store uniqueness constraint is
	// violated. Unused by the current field set, kept for the taxonomy.
	ErrDuplicateKey = errors.New("duplicate key")
)

// TodoUpdate carries a partial update. Nil fields are left untouched;
// only the fields present are written to the store.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
}

// TodoRepository defines the persistence contract for todos.
// The store assigns id, createdAt, updatedAt and field defaults on
// creation, and refreshes updatedAt on every mutation.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) (*Todo, error)
	GetByID(ctx context.Context, id string) (*Todo, error)
	List(ctx context.Context, filter TodoFilter) ([]Todo, int, error)
	Update(ctx context.Context, id string, update TodoUpdate) (*Todo, error)
	Delete(ctx context.Context, id string) error
}
