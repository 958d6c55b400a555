package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"todo-app/src/domain"
)

var (
	ErrTodoNotFound       = domain.ErrTodoNotFound
	ErrInvalidTitle       = errors.New("title is required and must be at most 200 characters")
	ErrInvalidDescription = errors.New("description must be at most 1000 characters")
	ErrInvalidPriority    = errors.New("priority must be low, medium, or high")
	ErrInvalidSortBy      = errors.New("sortBy must be createdAt, updatedAt, title, or priority")
	ErrInvalidSortOrder   = errors.New("order must be asc or desc")
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	defaultLimit         = 10
	maxLimit             = 100
)

// CreateTodoRequest represents input for creating a todo
type CreateTodoRequest struct {
	Title       string
	Description string
	Priority    string
}

// UpdateTodoRequest represents input for updating a todo.
// Nil fields are omitted from the update entirely.
type UpdateTodoRequest struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
}

// TodoUsecase defines the interface for todo business logic
type TodoUsecase interface {
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error)
	GetTodo(ctx context.Context, id string) (*domain.Todo, error)
	ListTodos(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, domain.Pagination, error)
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

type todoUsecase struct {
	todoRepo domain.TodoRepository
}

// NewTodoUsecase creates a new todo usecase
func NewTodoUsecase(todoRepo domain.TodoRepository) TodoUsecase {
	return &todoUsecase{
		todoRepo: todoRepo,
	}
}

// CreateTodo creates a new todo. Title and description are trimmed
// before validation; the store assigns id, timestamps, and defaults.
func (u *todoUsecase) CreateTodo(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if err := u.validateCreateRequest(req); err != nil {
		return nil, err
	}

	priority := domain.Priority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityMedium // デフォルト値
	}

	todo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		Priority:    priority,
	}

	return u.todoRepo.Create(ctx, todo)
}

// GetTodo retrieves a todo by ID
func (u *todoUsecase) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	todo, err := u.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// ListTodos retrieves one page of todos plus pagination metadata.
// Pagination is derived from the filtered count and the requested
// page/limit, not from the records returned, so an out-of-range page
// yields an empty list with a nonzero total.
func (u *todoUsecase) ListTodos(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, domain.Pagination, error) {
	if err := u.validateAndNormalizeFilter(&filter); err != nil {
		return nil, domain.Pagination{}, err
	}

	todos, total, err := u.todoRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return todos, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpdateTodo applies a partial update to an existing todo. Only fields
// present in the request are touched; touched fields are re-validated.
func (u *todoUsecase) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*domain.Todo, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
	}

	if err := u.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	update := domain.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		update.Priority = &p
	}

	return u.todoRepo.Update(ctx, id, update)
}

// DeleteTodo deletes a todo permanently
func (u *todoUsecase) DeleteTodo(ctx context.Context, id string) error {
	return u.todoRepo.Delete(ctx, id)
}

// validateCreateRequest validates create todo request
func (u *todoUsecase) validateCreateRequest(req CreateTodoRequest) error {
	if req.Title == "" || utf8.RuneCountInString(req.Title) > maxTitleLength {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLength {
		return ErrInvalidDescription
	}
	if req.Priority != "" && !domain.Priority(req.Priority).IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// validateUpdateRequest validates update todo request
func (u *todoUsecase) validateUpdateRequest(req UpdateTodoRequest) error {
	if req.Title != nil && (*req.Title == "" || utf8.RuneCountInString(*req.Title) > maxTitleLength) {
		return ErrInvalidTitle
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxDescriptionLength {
		return ErrInvalidDescription
	}
	if req.Priority != nil && !domain.Priority(*req.Priority).IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// validateAndNormalizeFilter validates and normalizes filter
func (u *todoUsecase) validateAndNormalizeFilter(filter *domain.TodoFilter) error {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.SortBy == "" {
		filter.SortBy = domain.SortByCreatedAt
	}
	if filter.SortOrder == "" {
		filter.SortOrder = domain.SortDesc
	}

	if !filter.SortBy.IsValid() {
		return ErrInvalidSortBy
	}
	if !filter.SortOrder.IsValid() {
		return ErrInvalidSortOrder
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return ErrInvalidPriority
	}

	filter.Search = strings.TrimSpace(filter.Search)

	return nil
}
