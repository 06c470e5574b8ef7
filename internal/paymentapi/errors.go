package paymentapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// TimeoutMessage текст ошибки для запроса, не уложившегося в отведённое время.
const TimeoutMessage = "request timed out"

// APIError ответ API с кодом вне диапазона 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Server-side error: %d %s", e.StatusCode, e.Message)
}

// TransportError запрос не дошёл до сервера или ответ не удалось прочитать.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "Client-side error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message приводит ошибку клиента к строке, которую store кладёт в поле Error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var trErr *TransportError
	if errors.As(err, &trErr) {
		return trErr.Error()
	}
	return err.Error()
}

// IsRetryable сообщает, имеет ли смысл повторять запрос:
// сетевые сбои и ответы 5xx повторяются, отмена контекста и 4xx нет.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	var trErr *TransportError
	return errors.As(err, &trErr)
}
