package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-app/src/domain"
)

const tempIDPrefix = "temp-"

// TodoStore combines the API client with the query cache and exposes
// the mutation intents the presentation layer dispatches. Reads are
// synchronous against the cache; a stale or absent entry triggers a
// revalidating fetch.
type TodoStore struct {
	api   *Client
	cache *QueryCache
	now   func() time.Time
}

// NewTodoStore creates a store around an API client
func NewTodoStore(api *Client) *TodoStore {
	return &TodoStore{
		api:   api,
		cache: NewQueryCache(),
		now:   time.Now,
	}
}

// Cache exposes the underlying query cache
func (s *TodoStore) Cache() *QueryCache {
	return s.cache
}

// ListTodos returns the cached page for the filters, fetching from the
// API when the entry is absent or stale. A revalidating fetch canceled
// by a newer optimistic write falls back to the current cached state.
func (s *TodoStore) ListTodos(ctx context.Context, filters TodoFilters) (ListResult, error) {
	key := filters.QueryString()

	if result, ok := s.cache.ReadFresh(key); ok {
		return result, nil
	}

	fetchCtx, gen := s.cache.beginRevalidate(ctx, key)
	result, err := s.api.List(fetchCtx, filters)
	if err != nil {
		// A canceled revalidation means an optimistic write superseded
		// this fetch; serve the optimistic state instead of failing.
		if errors.Is(err, context.Canceled) {
			if cached, ok := s.cache.Read(key); ok {
				return cached, nil
			}
		}
		return ListResult{}, err
	}

	if !s.cache.completeRevalidate(key, gen, *result) {
		// The entry moved on while we were fetching; the cached
		// optimistic state wins until the next revalidation.
		if cached, ok := s.cache.Read(key); ok {
			return cached, nil
		}
	}

	return *result, nil
}

// GetTodo fetches a single todo straight from the API
func (s *TodoStore) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	return s.api.Get(ctx, id)
}

// CreateTodo optimistically prepends a synthetic record to every cached
// entry, then settles against the server response.
func (s *TodoStore) CreateTodo(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	optimistic := s.syntheticTodo(input)
	mutation := s.cache.BeginMutation(func(result ListResult) ListResult {
		result.Todos = append([]domain.Todo{optimistic}, result.Todos...)
		return result
	})

	todo, err := s.api.Create(ctx, input)
	if err != nil {
		mutation.Rollback()
		return nil, err
	}

	mutation.Commit()
	return todo, nil
}

// UpdateTodo optimistically rewrites the matching record in every
// cached entry, then settles against the server response.
func (s *TodoStore) UpdateTodo(ctx context.Context, id string, input UpdateTodoInput) (*domain.Todo, error) {
	now := s.now()
	mutation := s.cache.BeginMutation(func(result ListResult) ListResult {
		for i := range result.Todos {
			if result.Todos[i].ID != id {
				continue
			}
			applyUpdate(&result.Todos[i], input)
			result.Todos[i].UpdatedAt = now
		}
		return result
	})

	todo, err := s.api.Update(ctx, id, input)
	if err != nil {
		mutation.Rollback()
		return nil, err
	}

	mutation.Commit()
	return todo, nil
}

// ToggleTodo flips a todo's completed flag
func (s *TodoStore) ToggleTodo(ctx context.Context, todo domain.Todo) (*domain.Todo, error) {
	completed := !todo.Completed
	return s.UpdateTodo(ctx, todo.ID, UpdateTodoInput{Completed: &completed})
}

// DeleteTodo optimistically removes the matching record from every
// cached entry, then settles against the server response.
func (s *TodoStore) DeleteTodo(ctx context.Context, id string) error {
	mutation := s.cache.BeginMutation(func(result ListResult) ListResult {
		todos := result.Todos[:0]
		for _, todo := range result.Todos {
			if todo.ID != id {
				todos = append(todos, todo)
			}
		}
		result.Todos = todos
		return result
	})

	if err := s.api.Delete(ctx, id); err != nil {
		mutation.Rollback()
		return err
	}

	mutation.Commit()
	return nil
}

// syntheticTodo builds the temporary record shown until the server
// confirms a create. Its id never survives settlement.
func (s *TodoStore) syntheticTodo(input CreateTodoInput) domain.Todo {
	now := s.now()
	priority := domain.Priority(input.Priority)
	if input.Priority == "" {
		priority = domain.PriorityMedium
	}

	return domain.Todo{
		ID:          fmt.Sprintf("%s%d", tempIDPrefix, now.UnixNano()),
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func applyUpdate(todo *domain.Todo, input UpdateTodoInput) {
	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil {
		todo.Priority = domain.Priority(*input.Priority)
	}
}
