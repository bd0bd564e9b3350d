// Package apierror holds the JSON bodies of every non-2xx answer of the
// storefront and admin APIs. Messages are in Portuguese because the admin
// panel shows them verbatim; store and driver errors never reach them.
package apierror

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// APIError is the body of 4xx/5xx answers: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError is the 422 body; Fields maps a request field to what is
// wrong with it.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}

// FromValidator turns validator output into a ValidationError with one
// readable message per field. Errors of any other kind yield no fields.
func FromValidator(err error) *ValidationError {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = message(fe)
		}
	}
	return NewValidation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "obrigatório"
	case "min", "gte":
		return "deve ser no mínimo " + fe.Param()
	case "max", "lte":
		return "deve ser no máximo " + fe.Param()
	case "gt":
		return "deve ser maior que " + fe.Param()
	case "oneof":
		return "deve ser um de: " + fe.Param()
	case "uuid":
		return "identificador inválido"
	case "url":
		return "URL inválida"
	default:
		return "inválido (" + fe.Tag() + ")"
	}
}
