package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"   validate:"required,min=1,max=9999"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"max=9999"`
}

type CheckoutRequest struct {
	Name       string `json:"name"        validate:"required,max=120"`
	Phone      string `json:"phone"       validate:"max=30"`
	Street     string `json:"street"      validate:"required,max=160"`
	Number     string `json:"number"      validate:"required,max=20"`
	Complement string `json:"complement"  validate:"max=80"`
	District   string `json:"district"    validate:"max=80"`
	City       string `json:"city"        validate:"required,max=80"`
	State      string `json:"state"       validate:"max=2"`
	PostalCode string `json:"postal_code" validate:"max=10"`
	Notes      string `json:"notes"       validate:"max=300"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	ImageURL        string          `json:"image_url"`
	Color           string          `json:"color,omitempty"`
	Size            string          `json:"size,omitempty"`
	Quantity        int             `json:"quantity"`
	MaxStock        int             `json:"max_stock"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	ID           string             `json:"id"`
	Items        []CartLineResponse `json:"items"`
	TotalItems   int                `json:"total_items"`
	TotalPrice   decimal.Decimal    `json:"total_price"`
	TotalSavings decimal.Decimal    `json:"total_savings"`
}

type CheckoutResponse struct {
	Message     string          `json:"message"`
	WhatsAppURL string          `json:"whatsapp_url"`
	Shipping    ShippingQuote   `json:"shipping"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}
