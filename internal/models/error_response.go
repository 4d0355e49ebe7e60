package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Виды ошибок предметной области. ErrorResponse оборачивает один из них,
// поэтому вызывающий код проверяет вид через errors.Is.
var (
	ErrNotFound     = errors.New("NotFound")
	ErrForbidden    = errors.New("Forbidden")
	ErrInvalidState = errors.New("InvalidState")
	ErrConflict     = errors.New("Conflict")
	ErrValidation   = errors.New("ValidationError")
	ErrGateway      = errors.New("GatewayError")
	ErrUnauthorized = errors.New("Unauthorized")
)

var kindStatusCodes = map[error]int{
	ErrNotFound:     http.StatusNotFound,
	ErrForbidden:    http.StatusForbidden,
	ErrInvalidState: http.StatusConflict,
	ErrConflict:     http.StatusConflict,
	ErrValidation:   http.StatusBadRequest,
	ErrGateway:      http.StatusBadGateway,
	ErrUnauthorized: http.StatusUnauthorized,
}

// ErrorResponse описывает ошибку с видом, кодом и сообщением.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Kind       error  `json:"-"`
	KindName   string `json:"kind"`
	Message    string `json:"reason"`
}

// NewErrorResponse создает новую ошибку заданного вида с сообщением.
func NewErrorResponse(kind error, message string) *ErrorResponse {
	statusCode, ok := kindStatusCodes[kind]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		KindName:   kind.Error(),
		Message:    message}
}

// Errorf создает ошибку заданного вида с форматированным сообщением.
func Errorf(kind error, format string, args ...any) *ErrorResponse {
	return NewErrorResponse(kind, fmt.Sprintf(format, args...))
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// Unwrap позволяет сравнивать ошибку с видом через errors.Is.
func (e *ErrorResponse) Unwrap() error {
	return e.Kind
}
