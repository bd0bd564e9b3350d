package service

import (
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// shirt has two variants, blouse has none.
func shirt() model.Product {
	return model.Product{
		ID:         uuid.New(),
		Name:       "Camiseta Básica",
		Price:      decimal.NewFromInt(50),
		CategoryID: 2,
		Active:     true,
		Visible:    true,
		SizeScheme: model.SizeSchemeLetters,
		Colors:     []model.ProductColor{{Name: "Preto"}},
		Variants: []model.ProductVariant{
			{ID: "v-p", Color: "Preto", Size: "P", Stock: 3},
			{ID: "v-m", Color: "Preto", Size: "M", Stock: 5},
		},
		Stock: 8,
	}
}

func blouse() model.Product {
	return model.Product{
		ID:         uuid.New(),
		Name:       "Blusa Linho",
		Price:      decimal.NewFromInt(80),
		CategoryID: 1,
		Active:     true,
		Visible:    true,
		Stock:      4,
	}
}
