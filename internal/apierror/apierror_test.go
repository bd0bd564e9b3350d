package apierror

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type addItem struct {
	ProductID string `validate:"required,uuid"`
	Quantity  int    `validate:"min=1,max=9999"`
	Sort      string `validate:"omitempty,oneof=price_asc price_desc"`
}

func TestFromValidator(t *testing.T) {
	err := validator.New().Struct(addItem{ProductID: "x", Quantity: 10000, Sort: "random"})

	v := FromValidator(err)
	assert.Equal(t, "Erro de validação", v.Detail)
	assert.Equal(t, map[string]string{
		"ProductID": "identificador inválido",
		"Quantity":  "deve ser no máximo 9999",
		"Sort":      "deve ser um de: price_asc price_desc",
	}, v.Fields)
}

func TestFromValidator_OtherError(t *testing.T) {
	v := FromValidator(errors.New("boom"))
	assert.Empty(t, v.Fields)
}
