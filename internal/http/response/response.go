// Package response содержит унифицированный формат JSON‑ответов HTTP‑обработчиков
// консоли: успешные ответы, ошибки и сообщения валидации платёжной формы.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError собирает нарушения правил платёжной формы в одну строку через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be exactly %s characters", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "billing_email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "luhn":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid card number", err.Field()))
		case "card_expiry":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a future date in format MM/YY", err.Field()))
		case "cardholder":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only latin letters and spaces", err.Field()))
		case "cvv":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid for card type %s", err.Field(), err.Param()))
		case "postal_code":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid postal code for %s", err.Field(), err.Param()))
		case "currency_amount":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has too many decimal places for %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
