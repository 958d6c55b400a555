package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"todo-app/src/domain"
	"todo-app/src/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTodoRepository は domain.TodoRepository のモック実装
type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	args := m.Called(ctx, todo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Todo), args.Error(1)
}

func (m *MockTodoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Todo), args.Error(1)
}

func (m *MockTodoRepository) List(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Todo), args.Get(1).(int), args.Error(2)
}

func (m *MockTodoRepository) Update(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Todo), args.Error(1)
}

func (m *MockTodoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTodoUsecase_CreateTodo(t *testing.T) {
	tests := []struct {
		name          string
		request       usecase.CreateTodoRequest
		mockSetup     func(*MockTodoRepository)
		expectedError error
	}{
		{
			name: "successful creation with defaults",
			request: usecase.CreateTodoRequest{
				Title: "Buy milk",
			},
			mockSetup: func(m *MockTodoRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(todo *domain.Todo) bool {
					return todo.Title == "Buy milk" &&
						!todo.Completed &&
						todo.Priority == domain.PriorityMedium
				})).Return(&domain.Todo{
					ID:        "507f1f77bcf86cd799439011",
					Title:     "Buy milk",
					Completed: false,
					Priority:  domain.PriorityMedium,
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}, nil)
			},
		},
		{
			name: "title is trimmed before validation",
			request: usecase.CreateTodoRequest{
				Title: "  Buy milk  ",
			},
			mockSetup: func(m *MockTodoRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(todo *domain.Todo) bool {
					return todo.Title == "Buy milk"
				})).Return(&domain.Todo{ID: "507f1f77bcf86cd799439011", Title: "Buy milk"}, nil)
			},
		},
		{
			name:          "empty title",
			request:       usecase.CreateTodoRequest{Title: ""},
			mockSetup:     func(m *MockTodoRepository) {},
			expectedError: usecase.ErrInvalidTitle,
		},
		{
			name:          "whitespace-only title",
			request:       usecase.CreateTodoRequest{Title: "   "},
			mockSetup:     func(m *MockTodoRepository) {},
			expectedError: usecase.ErrInvalidTitle,
		},
		{
			name:    "title of exactly 200 characters is accepted",
			request: usecase.CreateTodoRequest{Title: strings.Repeat("a", 200)},
			mockSetup: func(m *MockTodoRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(&domain.Todo{
					ID:    "507f1f77bcf86cd799439011",
					Title: strings.Repeat("a", 200),
				}, nil)
			},
		},
		{
			name:          "title of 201 characters is rejected",
			request:       usecase.CreateTodoRequest{Title: strings.Repeat("a", 201)},
			mockSetup:     func(m *MockTodoRepository) {},
			expectedError: usecase.ErrInvalidTitle,
		},
		{
			name: "description of 1000 characters is accepted",
			request: usecase.CreateTodoRequest{
				Title:       "Task",
				Description: strings.Repeat("b", 1000),
			},
			mockSetup: func(m *MockTodoRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(&domain.Todo{
					ID:    "507f1f77bcf86cd799439011",
					Title: "Task",
				}, nil)
			},
		},
		{
			name: "description of 1001 characters is rejected",
			request: usecase.CreateTodoRequest{
				Title:       "Task",
				Description: strings.Repeat("b", 1001),
			},
			mockSetup:     func(m *MockTodoRepository) {},
			expectedError: usecase.ErrInvalidDescription,
		},
		{
			name: "invalid priority",
			request: usecase.CreateTodoRequest{
				Title:    "Task",
				Priority: "urgent",
			},
			mockSetup:     func(m *MockTodoRepository) {},
			expectedError: usecase.ErrInvalidPriority,
		},
		{
			name: "explicit priority is preserved",
			request: usecase.CreateTodoRequest{
				Title:    "Task",
				Priority: "high",
			},
			mockSetup: func(m *MockTodoRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(todo *domain.Todo) bool {
					return todo.Priority == domain.PriorityHigh
				})).Return(&domain.Todo{ID: "507f1f77bcf86cd799439011", Priority: domain.PriorityHigh}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTodoRepository)
			tt.mockSetup(mockRepo)
			u := usecase.NewTodoUsecase(mockRepo)

			todo, err := u.CreateTodo(context.Background(), tt.request)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, todo)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, todo)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTodoUsecase_ListTodos_FilterNormalization(t *testing.T) {
	tests := []struct {
		name     string
		filter   domain.TodoFilter
		expected domain.TodoFilter
	}{
		{
			name:   "zero filter gets defaults",
			filter: domain.TodoFilter{},
			expected: domain.TodoFilter{
				Page:      1,
				Limit:     10,
				SortBy:    domain.SortByCreatedAt,
				SortOrder: domain.SortDesc,
			},
		},
		{
			name:   "page zero becomes one",
			filter: domain.TodoFilter{Page: 0, Limit: 20},
			expected: domain.TodoFilter{
				Page:      1,
				Limit:     20,
				SortBy:    domain.SortByCreatedAt,
				SortOrder: domain.SortDesc,
			},
		},
		{
			name:   "limit above maximum is clamped",
			filter: domain.TodoFilter{Page: 1, Limit: 500},
			expected: domain.TodoFilter{
				Page:      1,
				Limit:     100,
				SortBy:    domain.SortByCreatedAt,
				SortOrder: domain.SortDesc,
			},
		},
		{
			name: "explicit sort is preserved",
			filter: domain.TodoFilter{
				Page:      2,
				Limit:     5,
				SortBy:    domain.SortByTitle,
				SortOrder: domain.SortAsc,
			},
			expected: domain.TodoFilter{
				Page:      2,
				Limit:     5,
				SortBy:    domain.SortByTitle,
				SortOrder: domain.SortAsc,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTodoRepository)
			mockRepo.On("List", mock.Anything, tt.expected).Return([]domain.Todo{}, 0, nil)
			u := usecase.NewTodoUsecase(mockRepo)

			_, _, err := u.ListTodos(context.Background(), tt.filter)

			assert.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTodoUsecase_ListTodos_Pagination(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	mockRepo.On("List", mock.Anything, mock.Anything).Return([]domain.Todo{
		{ID: "507f1f77bcf86cd799439011", Title: "A"},
	}, 41, nil)
	u := usecase.NewTodoUsecase(mockRepo)

	todos, pagination, err := u.ListTodos(context.Background(), domain.TodoFilter{Page: 2, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 10, pagination.Limit)
	assert.Equal(t, 41, pagination.Total)
	assert.Equal(t, 5, pagination.TotalPages)
}

func TestTodoUsecase_ListTodos_OutOfRangePage(t *testing.T) {
	// 範囲外のページは空のリストと実際の総件数を返す（クランプしない）
	mockRepo := new(MockTodoRepository)
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.TodoFilter) bool {
		return f.Page == 99 && f.Skip() == 980
	})).Return([]domain.Todo{}, 3, nil)
	u := usecase.NewTodoUsecase(mockRepo)

	todos, pagination, err := u.ListTodos(context.Background(), domain.TodoFilter{Page: 99, Limit: 10})

	assert.NoError(t, err)
	assert.Empty(t, todos)
	assert.Equal(t, 99, pagination.Page)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, 1, pagination.TotalPages)
}

func TestTodoUsecase_ListTodos_InvalidSort(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	u := usecase.NewTodoUsecase(mockRepo)

	_, _, err := u.ListTodos(context.Background(), domain.TodoFilter{SortBy: "description"})
	assert.ErrorIs(t, err, usecase.ErrInvalidSortBy)

	_, _, err = u.ListTodos(context.Background(), domain.TodoFilter{SortOrder: "sideways"})
	assert.ErrorIs(t, err, usecase.ErrInvalidSortOrder)
}

func TestTodoUsecase_GetTodo(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	mockRepo.On("GetByID", mock.Anything, "507f1f77bcf86cd799439011").Return(&domain.Todo{
		ID:    "507f1f77bcf86cd799439011",
		Title: "Buy milk",
	}, nil)
	mockRepo.On("GetByID", mock.Anything, "507f1f77bcf86cd799439012").Return(nil, domain.ErrTodoNotFound)
	u := usecase.NewTodoUsecase(mockRepo)

	todo, err := u.GetTodo(context.Background(), "507f1f77bcf86cd799439011")
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Title)

	_, err = u.GetTodo(context.Background(), "507f1f77bcf86cd799439012")
	assert.ErrorIs(t, err, usecase.ErrTodoNotFound)
}

func TestTodoUsecase_UpdateTodo(t *testing.T) {
	completed := true

	t.Run("completed-only update touches nothing else", func(t *testing.T) {
		mockRepo := new(MockTodoRepository)
		mockRepo.On("Update", mock.Anything, "507f1f77bcf86cd799439011", mock.MatchedBy(func(u domain.TodoUpdate) bool {
			return u.Completed != nil && *u.Completed &&
				u.Title == nil && u.Description == nil && u.Priority == nil
		})).Return(&domain.Todo{
			ID:        "507f1f77bcf86cd799439011",
			Title:     "Buy milk",
			Completed: true,
			Priority:  domain.PriorityMedium,
		}, nil)
		u := usecase.NewTodoUsecase(mockRepo)

		todo, err := u.UpdateTodo(context.Background(), "507f1f77bcf86cd799439011", usecase.UpdateTodoRequest{
			Completed: &completed,
		})

		assert.NoError(t, err)
		assert.True(t, todo.Completed)
		assert.Equal(t, "Buy milk", todo.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		mockRepo := new(MockTodoRepository)
		u := usecase.NewTodoUsecase(mockRepo)

		empty := "  "
		_, err := u.UpdateTodo(context.Background(), "507f1f77bcf86cd799439011", usecase.UpdateTodoRequest{
			Title: &empty,
		})

		assert.ErrorIs(t, err, usecase.ErrInvalidTitle)
	})

	t.Run("not found propagates", func(t *testing.T) {
		mockRepo := new(MockTodoRepository)
		mockRepo.On("Update", mock.Anything, "507f1f77bcf86cd799439012", mock.Anything).
			Return(nil, domain.ErrTodoNotFound)
		u := usecase.NewTodoUsecase(mockRepo)

		_, err := u.UpdateTodo(context.Background(), "507f1f77bcf86cd799439012", usecase.UpdateTodoRequest{
			Completed: &completed,
		})

		assert.ErrorIs(t, err, usecase.ErrTodoNotFound)
	})
}

func TestTodoUsecase_DeleteTodo(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	mockRepo.On("Delete", mock.Anything, "507f1f77bcf86cd799439011").Return(nil)
	mockRepo.On("Delete", mock.Anything, "507f1f77bcf86cd799439012").Return(domain.ErrTodoNotFound)
	u := usecase.NewTodoUsecase(mockRepo)

	assert.NoError(t, u.DeleteTodo(context.Background(), "507f1f77bcf86cd799439011"))
	assert.ErrorIs(t, u.DeleteTodo(context.Background(), "507f1f77bcf86cd799439012"), usecase.ErrTodoNotFound)
}
