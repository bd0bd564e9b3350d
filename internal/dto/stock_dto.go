package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AdjustStockRequest changes stock immediately. VariantID is required for
// products with variants and must be empty otherwise.
type AdjustStockRequest struct {
	VariantID string `json:"variant_id"`
	Delta     int    `json:"delta" validate:"required,min=-1000000,max=1000000"`
	Note      string `json:"note"  validate:"max=200"`
}

// StageStockRequest adds edits to the caller's pending batch. Each change
// carries either an absolute Stock or a relative Delta.
type StageStockRequest struct {
	Changes []StageStockChange `json:"changes" validate:"required,min=1,dive"`
}

type StageStockChange struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id"`
	Stock     *int   `json:"stock"      validate:"omitempty,min=0,max=1000000"`
	Delta     *int   `json:"delta"      validate:"omitempty,min=-1000000,max=1000000"`
}

type CommitStockRequest struct {
	Note string `json:"note" validate:"max=200"`
}

type MovementFilter struct {
	ProductID string `form:"product_id"`
	Direction string `form:"direction" validate:"omitempty,oneof=entrada saida"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PendingChangeResponse struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Stock     int    `json:"stock"`
}

// StockView is a product as seen on the stock screen, pending edits applied.
type StockView struct {
	ProductID  string            `json:"product_id"`
	Name       string            `json:"name"`
	SavedStock int               `json:"saved_stock"`
	Stock      int               `json:"stock"`
	Variants   []VariantResponse `json:"variants"`
	Pending    bool              `json:"pending"`
}

type CommitStockResponse struct {
	ProductsUpdated int `json:"products_updated"`
	Movements       int `json:"movements"`
}

type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	VariantID   *string   `json:"variant_id,omitempty"`
	Direction   string    `json:"direction"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
