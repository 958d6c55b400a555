package handler

import (
	"errors"
	"net/http"

	"todo-app/src/domain"
	"todo-app/src/usecase"
	"todo-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TodoHandler handles HTTP requests for todo operations
type TodoHandler struct {
	todoUsecase usecase.TodoUsecase
	validator   *validator.CustomValidator
	logger      *logrus.Logger
	production  bool
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoUsecase usecase.TodoUsecase, cv *validator.CustomValidator, logger *logrus.Logger, production bool) *TodoHandler {
	return &TodoHandler{
		todoUsecase: todoUsecase,
		validator:   cv,
		logger:      logger,
		production:  production,
	}
}

// ListTodos retrieves todos with filtering and pagination
func (h *TodoHandler) ListTodos(c *gin.Context) {
	var query TodoQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Validation failed", []validator.FieldError{
			{Field: "query", Message: err.Error()},
		})
		return
	}

	if err := h.validator.Validate(query); err != nil {
		h.respondValidationError(c, err)
		return
	}

	todos, pagination, err := h.todoUsecase.ListTodos(c.Request.Context(), query.toDomainFilter())
	if err != nil {
		h.logger.WithError(err).Error("Todoリストの取得に失敗")
		h.respondUsecaseError(c, err, "Failed to get todos")
		return
	}

	respondSuccessWithPagination(c, http.StatusOK, toTodoResponseDTOs(todos), "Todos retrieved successfully", pagination)
}

// GetTodo retrieves a todo by ID
func (h *TodoHandler) GetTodo(c *gin.Context) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		h.respondValidationError(c, err)
		return
	}

	todo, err := h.todoUsecase.GetTodo(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("todo_id", id).Error("Todoの取得に失敗")
		h.respondUsecaseError(c, err, "Failed to get todo")
		return
	}

	respondSuccess(c, http.StatusOK, toTodoResponseDTO(todo), "Todo retrieved successfully")
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req CreateTodoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("リクエストのバインドに失敗")
		respondError(c, http.StatusUnprocessableEntity, "Validation failed", []validator.FieldError{
			{Field: "body", Message: "Invalid request format"},
		})
		return
	}

	if err := h.validator.Validate(req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	todo, err := h.todoUsecase.CreateTodo(c.Request.Context(), usecase.CreateTodoRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		h.logger.WithError(err).Error("Todoの作成に失敗")
		h.respondUsecaseError(c, err, "Failed to create todo")
		return
	}

	h.logger.WithField("todo_id", todo.ID).Info("Todoを作成しました")
	respondSuccess(c, http.StatusCreated, toTodoResponseDTO(todo), "Todo created successfully")
}

// UpdateTodo applies a partial update to an existing todo
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		h.respondValidationError(c, err)
		return
	}

	var req UpdateTodoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("リクエストのバインドに失敗")
		respondError(c, http.StatusUnprocessableEntity, "Validation failed", []validator.FieldError{
			{Field: "body", Message: "Invalid request format"},
		})
		return
	}

	if err := h.validator.Validate(req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	todo, err := h.todoUsecase.UpdateTodo(c.Request.Context(), id, usecase.UpdateTodoRequest{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
	})
	if err != nil {
		h.logger.WithError(err).WithField("todo_id", id).Error("Todoの更新に失敗")
		h.respondUsecaseError(c, err, "Failed to update todo")
		return
	}

	h.logger.WithField("todo_id", id).Info("Todoを更新しました")
	respondSuccess(c, http.StatusOK, toTodoResponseDTO(todo), "Todo updated successfully")
}

// DeleteTodo deletes a todo permanently
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		h.respondValidationError(c, err)
		return
	}

	if err := h.todoUsecase.DeleteTodo(c.Request.Context(), id); err != nil {
		h.logger.WithError(err).WithField("todo_id", id).Error("Todoの削除に失敗")
		h.respondUsecaseError(c, err, "Failed to delete todo")
		return
	}

	h.logger.WithField("todo_id", id).Info("Todoを削除しました")
	respondSuccess(c, http.StatusOK, nil, "Todo deleted successfully")
}

// respondValidationError renders a 422 envelope from validator output
func (h *TodoHandler) respondValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondError(c, http.StatusUnprocessableEntity, "Validation failed", verrs.Errors)
		return
	}
	respondError(c, http.StatusUnprocessableEntity, "Validation failed", nil)
}

// respondUsecaseError maps usecase errors onto the envelope/status
// pairing. Unknown errors become a 500 whose message is generic in
// production and detailed otherwise.
func (h *TodoHandler) respondUsecaseError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrTodoNotFound):
		respondError(c, http.StatusNotFound, "Todo not found", nil)
	case errors.Is(err, domain.ErrDuplicateKey):
		respondError(c, http.StatusConflict, "Duplicate value", nil)
	default:
		if field, ok := fieldForUsecaseError(err); ok {
			respondError(c, http.StatusUnprocessableEntity, "Validation failed", []validator.FieldError{
				{Field: field, Message: err.Error()},
			})
			return
		}
		message := fallback
		if h.production {
			message = "Internal server error"
		} else if err != nil {
			message = err.Error()
		}
		respondError(c, http.StatusInternalServerError, message, nil)
	}
}

// fieldForUsecaseError resolves which request field a usecase
// validation error belongs to.
func fieldForUsecaseError(err error) (string, bool) {
	switch {
	case errors.Is(err, usecase.ErrInvalidTitle):
		return "title", true
	case errors.Is(err, usecase.ErrInvalidDescription):
		return "description", true
	case errors.Is(err, usecase.ErrInvalidPriority):
		return "priority", true
	case errors.Is(err, usecase.ErrInvalidSortBy):
		return "sortBy", true
	case errors.Is(err, usecase.ErrInvalidSortOrder):
		return "order", true
	default:
		return "", false
	}
}
