package handler

import (
	"github.com/gin-gonic/gin"

	"todo-app/src/domain"
	"todo-app/src/validator"
)

func respondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func respondSuccessWithPagination(c *gin.Context, status int, data interface{}, message string, pagination domain.Pagination) {
	c.JSON(status, Envelope{
		Success:    true,
		Data:       data,
		Message:    message,
		Pagination: &pagination,
	})
}

func respondError(c *gin.Context, status int, message string, errs []validator.FieldError) {
	c.JSON(status, Envelope{
		Success: false,
		Data:    nil,
		Message: message,
		Errors:  errs,
	})
}
