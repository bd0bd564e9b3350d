// Package cart keeps shopping carts consistent with stock: one line per
// (product, color, size), quantities capped by the stock known at add time,
// and prices frozen when the line is created.
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a cart line. Price and discount fields are snapshots taken when
// the line was created and never change afterwards.
type Item struct {
	ID        string    `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	Color     string    `json:"color,omitempty"`
	Size      string    `json:"size,omitempty"`
	Quantity  int       `json:"quantity"`
	MaxStock  int       `json:"max_stock"`

	OriginalPrice     decimal.Decimal  `json:"original_price"`
	DiscountedPrice   decimal.Decimal  `json:"discounted_price"`
	DiscountType      string           `json:"discount_type,omitempty"`
	DiscountValue     *decimal.Decimal `json:"discount_value,omitempty"`
	DiscountExpiresAt *time.Time       `json:"discount_expires_at,omitempty"`

	AddedAt time.Time `json:"added_at"`
}

// ItemID derives the line id from the product and the chosen combination.
func ItemID(productID uuid.UUID, color, size string) string {
	return productID.String() + "|" + color + "|" + size
}

// HasDiscount reports whether the line was added with a discount.
func (it Item) HasDiscount() bool { return it.DiscountType != "" }

// LineTotal is quantity × discounted snapshot.
func (it Item) LineTotal() decimal.Decimal {
	return it.DiscountedPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// LineSavings is quantity × (original − discounted).
func (it Item) LineSavings() decimal.Decimal {
	return it.OriginalPrice.Sub(it.DiscountedPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// valid rejects lines a store should never hand back.
func (it Item) valid() bool {
	return it.ID != "" && it.ProductID != uuid.Nil && it.Quantity > 0 && it.MaxStock >= it.Quantity &&
		!it.DiscountedPrice.IsNegative() && !it.OriginalPrice.IsNegative()
}

// Totals summarises a cart from the line snapshots.
type Totals struct {
	TotalItems   int             `json:"total_items"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TotalSavings decimal.Decimal `json:"total_savings"`
}

// ComputeTotals never consults live product prices.
func ComputeTotals(items []Item) Totals {
	t := Totals{TotalPrice: decimal.Zero, TotalSavings: decimal.Zero}
	for _, it := range items {
		t.TotalItems += it.Quantity
		t.TotalPrice = t.TotalPrice.Add(it.LineTotal())
		t.TotalSavings = t.TotalSavings.Add(it.LineSavings())
	}
	return t
}
