package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// OK writes a 200 success envelope.
func OK[T any](ctx *gin.Context, data T, message string) {
	ctx.JSON(http.StatusOK, Success(ctx, http.StatusOK, data, message, nil))
}

// Created writes a 201 success envelope.
func Created[T any](ctx *gin.Context, data T, message string) {
	ctx.JSON(http.StatusCreated, Success(ctx, http.StatusCreated, data, message, nil))
}

// Fail writes an error envelope with the given status.
func Fail(ctx *gin.Context, status int, message string, err interface{}) {
	ctx.JSON(status, Error[any](ctx, status, message, err))
}
