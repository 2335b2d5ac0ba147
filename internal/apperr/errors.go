// Package apperr is the error contract shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInternal     Code = "INTERNAL"
)

// FieldError is one itemized validation failure.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type AppError struct {
	Code    Code
	Op      string // operation name, ex: "PostService.Like"
	Message string // safe for clients
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

func BadRequest(op, msg string) error {
	return &AppError{Code: CodeBadRequest, Op: op, Message: msg}
}

func Unauthorized(op, msg string) error {
	return &AppError{Code: CodeUnauthorized, Op: op, Message: msg}
}

func NotFound(op, msg string) error {
	return &AppError{Code: CodeNotFound, Op: op, Message: msg}
}

func Internal(op string, err error) error {
	return &AppError{Code: CodeInternal, Op: op, Message: "Server error", Err: err}
}

// Validation builds a BadRequest carrying itemized field errors.
func Validation(op string, fields ...FieldError) error {
	return &AppError{Code: CodeBadRequest, Op: op, Message: "Validation failed", Fields: fields}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsCode(err error, code Code) bool {
	if ae, ok := As(err); ok {
		return ae.Code == code
	}
	return false
}

func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
