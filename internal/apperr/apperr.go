// Package apperr 定义业务错误分类及其到 HTTP 状态码的映射。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 业务错误码
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeUnauthorized       Code = "AUTH_UNAUTHORIZED"
	CodeMissRefreshToken   Code = "AUTH_MISS_REFRESH_TOKEN"
	CodeWrongCredentials   Code = "AUTH_WRONG_CREDENTIALS"
	CodeUserExist          Code = "AUTH_USER_EXIST"
	CodeNotDeleteAdmin     Code = "AUTH_NOT_DELETE_ADMIN"
	CodeUserNotExisted     Code = "USER_NOT_EXISTED"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeMovieNotFound      Code = "MOVIE_NOT_FOUND"
	CodeMovieAlreadyLiked  Code = "MOVIE_ALREADY_LIKED"
	CodeMovieNotLiked      Code = "MOVIE_ALREADY_UNLIKED"
	CodeUpstreamFailed     Code = "UPSTREAM_FAILED"
	CodeAvatarInvalid      Code = "AVATAR_INVALID"
	CodeAvatarDisabled     Code = "AVATAR_STORAGE_DISABLED"
	CodeDocumentFailFind   Code = "DOCUMENT_FAIL_FIND"
	CodeDocumentFailCreate Code = "DOCUMENT_FAIL_CREATE"
	CodeDocumentFailUpdate Code = "DOCUMENT_FAIL_UPDATE"
	CodeDocumentFailDelete Code = "DOCUMENT_FAIL_DELETE"
)

// Op 存储操作类型
type Op string

const (
	OpFind   Op = "find"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var opCodes = map[Op]Code{
	OpFind:   CodeDocumentFailFind,
	OpCreate: CodeDocumentFailCreate,
	OpUpdate: CodeDocumentFailUpdate,
	OpDelete: CodeDocumentFailDelete,
}

// Error 带 HTTP 状态的业务错误
type Error struct {
	Status  int
	Code    Code
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于 errors.Is(err, apperr.New(...)) 风格的断言
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Status == t.Status
}

// New 创建业务错误
func New(status int, code Code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap 创建包装底层错误的业务错误
func Wrap(status int, code Code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func BadRequest(code Code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(code Code, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

func Forbidden(code Code, message string) *Error {
	return New(http.StatusForbidden, code, message)
}

func NotFound(code Code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code Code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// Validation 请求参数校验失败
func Validation(details ...string) *Error {
	e := New(http.StatusBadRequest, CodeValidationFailed, "validation failed")
	e.Details = details
	return e
}

// Store 存储层失败，按操作打标签
func Store(op Op, err error) *Error {
	return Wrap(http.StatusInternalServerError, opCodes[op], fmt.Sprintf("failed to %s document", op), err)
}

// From 将任意错误归类为业务错误，无法识别的归为 UNKNOWN
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(http.StatusInternalServerError, CodeUnknown, "unknown error", err)
}

// HasCode 判断错误链中是否含有指定错误码
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
