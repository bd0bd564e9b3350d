package catalog

import (
	"errors"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var (
	ErrDiscountType    = errors.New("tipo de desconto inválido")
	ErrDiscountValue   = errors.New("valor do desconto deve ser maior que zero")
	ErrDiscountPercent = errors.New("desconto percentual não pode passar de 100%")
	ErrDiscountExpiry  = errors.New("validade do desconto deve ser uma data futura")
)

// DiscountBreakdown is the display-ready view of a product price.
type DiscountBreakdown struct {
	Original       decimal.Decimal
	Effective      decimal.Decimal
	Savings        decimal.Decimal
	SavingsPercent int
	Valid          bool
}

// IsDiscountValid reports whether the product discount applies.
// DiscountExpiresAt is stored and validated on edit but not consulted here.
func IsDiscountValid(p *model.Product) bool {
	return p.DiscountActive && p.DiscountValue.IsPositive()
}

// EffectivePrice is the unit price after the discount, never below zero.
func EffectivePrice(p *model.Product) decimal.Decimal {
	if !IsDiscountValid(p) {
		return p.Price
	}

	var price decimal.Decimal
	switch p.DiscountType {
	case model.DiscountPercentage:
		price = p.Price.Mul(hundred.Sub(p.DiscountValue)).Div(hundred)
	case model.DiscountFixed:
		price = p.Price.Sub(p.DiscountValue)
	default:
		return p.Price
	}

	if price.IsNegative() {
		return decimal.Zero
	}
	return price.Round(2)
}

// Breakdown computes original, effective and savings for display.
// Percentage discounts report their own value as the savings percent; fixed
// discounts report savings relative to the original price.
func Breakdown(p *model.Product) DiscountBreakdown {
	b := DiscountBreakdown{
		Original:  p.Price,
		Effective: p.Price,
		Savings:   decimal.Zero,
	}
	if !IsDiscountValid(p) {
		return b
	}

	b.Effective = EffectivePrice(p)
	b.Savings = b.Original.Sub(b.Effective)

	switch p.DiscountType {
	case model.DiscountPercentage:
		b.SavingsPercent = int(p.DiscountValue.Round(0).IntPart())
		b.Valid = true
	case model.DiscountFixed:
		if b.Original.IsPositive() {
			b.SavingsPercent = int(b.Savings.Div(b.Original).Mul(hundred).Round(0).IntPart())
		}
		b.Valid = true
	}
	return b
}

// ValidateDiscount checks the discount fields of an admin form. Inactive
// discounts are accepted as-is so their terms can be kept for later.
func ValidateDiscount(active bool, discountType string, value decimal.Decimal, expiresAt *time.Time, now time.Time) error {
	if !active {
		return nil
	}
	if discountType != model.DiscountPercentage && discountType != model.DiscountFixed {
		return ErrDiscountType
	}
	if !value.IsPositive() {
		return ErrDiscountValue
	}
	if discountType == model.DiscountPercentage && value.GreaterThan(hundred) {
		return ErrDiscountPercent
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return ErrDiscountExpiry
	}
	return nil
}
