package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ShippingConfigRequest struct {
	OriginCity            string                `json:"origin_city"             validate:"max=80"`
	LocalFee              decimal.Decimal       `json:"local_fee"`
	DefaultFee            *decimal.Decimal      `json:"default_fee"`
	FreeShippingThreshold *decimal.Decimal      `json:"free_shipping_threshold"`
	DeliveryNote          string                `json:"delivery_note"           validate:"max=300"`
	Tiers                 []ShippingTierRequest `json:"tiers"                   validate:"dive"`
}

type ShippingTierRequest struct {
	City          string          `json:"city"           validate:"required,max=80"`
	Fee           decimal.Decimal `json:"fee"`
	EstimatedDays int             `json:"estimated_days" validate:"min=0,max=60"`
}

type QuoteQuery struct {
	City     string `form:"city"`
	CEP      string `form:"cep"`
	Subtotal string `form:"subtotal"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShippingConfigResponse struct {
	OriginCity            string                `json:"origin_city"`
	LocalFee              decimal.Decimal       `json:"local_fee"`
	DefaultFee            *decimal.Decimal      `json:"default_fee"`
	FreeShippingThreshold *decimal.Decimal      `json:"free_shipping_threshold"`
	DeliveryNote          string                `json:"delivery_note"`
	Tiers                 []ShippingTierRequest `json:"tiers"`
}

type ShippingQuote struct {
	City          string           `json:"city"`
	Label         string           `json:"label"`
	Fee           *decimal.Decimal `json:"fee"` // null: agreed over chat
	Free          bool             `json:"free"`
	EstimatedDays int              `json:"estimated_days,omitempty"`
}

type AddressLookupResponse struct {
	CEP      string `json:"cep"`
	Street   string `json:"street"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
}
