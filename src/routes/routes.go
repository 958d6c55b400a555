package routes

import (
	"todo-app/src/interface/handler"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, todoHandler *handler.TodoHandler) {
	api := r.Group("/api")

	// Todoの基本CRUD操作
	todos := api.Group("/todos")
	{
		todos.GET("", todoHandler.ListTodos)         // GET /api/todos
		todos.POST("", todoHandler.CreateTodo)       // POST /api/todos
		todos.GET("/:id", todoHandler.GetTodo)       // GET /api/todos/:id
		todos.PATCH("/:id", todoHandler.UpdateTodo)  // PATCH /api/todos/:id
		todos.DELETE("/:id", todoHandler.DeleteTodo) // DELETE /api/todos/:id
	}
}
