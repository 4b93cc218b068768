package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/apperr"
	"go.uber.org/zap"
)

// Response 成功响应
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	ErrorCode  string   `json:"errorCode"`
	StatusCode int      `json:"statusCode"`
	Details    []string `json:"details,omitempty"`
}

// Success 返回 200
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// Created 返回 201
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// Fail 将错误归类后返回错误响应并中止后续处理
func Fail(c *gin.Context, err error) {
	e := apperr.From(err)

	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", e.Status),
		zap.String("code", string(e.Code)),
		zap.Error(err),
	}
	if e.Status >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
	} else {
		zap.L().Info("request rejected", fields...)
	}

	c.AbortWithStatusJSON(e.Status, ErrorResponse{
		Status:     "error",
		Message:    e.Message,
		ErrorCode:  string(e.Code),
		StatusCode: e.Status,
		Details:    e.Details,
	})
}
