package handler

import (
	"time"

	"todo-app/src/domain"
	"todo-app/src/validator"
)

// CreateTodoRequestDTO represents HTTP request for creating a todo
type CreateTodoRequestDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateTodoRequestDTO represents HTTP request for updating a todo.
// Pointer fields distinguish "omitted" from "set to the zero value".
type UpdateTodoRequestDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed,omitempty"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// TodoQueryDTO represents HTTP query parameters for listing todos
type TodoQueryDTO struct {
	Page      int    `form:"page,default=1" json:"page" validate:"min=1"`
	Limit     int    `form:"limit,default=10" json:"limit" validate:"min=1,max=100"`
	SortBy    string `form:"sortBy,default=createdAt" json:"sortBy" validate:"oneof=createdAt updatedAt title priority"`
	Order     string `form:"order,default=desc" json:"order" validate:"oneof=asc desc"`
	Completed string `form:"completed" json:"completed" validate:"omitempty,oneof=true false"`
	Priority  string `form:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
	Search    string `form:"search" json:"search" validate:"omitempty,max=200"`
}

// TodoResponseDTO represents HTTP response for a todo
type TodoResponseDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Envelope is the uniform response wrapper for every endpoint
type Envelope struct {
	Success    bool                   `json:"success"`
	Data       interface{}            `json:"data"`
	Message    string                 `json:"message"`
	Pagination *domain.Pagination     `json:"pagination,omitempty"`
	Errors     []validator.FieldError `json:"errors,omitempty"`
}

func toTodoResponseDTO(todo *domain.Todo) TodoResponseDTO {
	return TodoResponseDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    todo.Priority.String(),
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func toTodoResponseDTOs(todos []domain.Todo) []TodoResponseDTO {
	result := make([]TodoResponseDTO, len(todos))
	for i := range todos {
		result[i] = toTodoResponseDTO(&todos[i])
	}
	return result
}

func (dto TodoQueryDTO) toDomainFilter() domain.TodoFilter {
	filter := domain.TodoFilter{
		Priority:  domain.Priority(dto.Priority),
		Search:    dto.Search,
		SortBy:    domain.SortField(dto.SortBy),
		SortOrder: domain.SortOrder(dto.Order),
		Page:      dto.Page,
		Limit:     dto.Limit,
	}

	// completed arrives as the strings "true"/"false"; absent means no
	// completion predicate at all.
	if dto.Completed != "" {
		completed := dto.Completed == "true"
		filter.Completed = &completed
	}

	return filter
}
