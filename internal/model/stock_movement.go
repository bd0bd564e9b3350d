package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement directions.
const (
	MovementIn  = "entrada"
	MovementOut = "saida"
)

// StockMovement is an append-only record of a stock change. Rows are never
// updated or deleted.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID   *string
	Direction   string `gorm:"not null"`
	Quantity    int    `gorm:"not null"` // always positive; Direction carries the sign
	StockBefore int    `gorm:"not null"`
	StockAfter  int    `gorm:"not null"`
	Note        string
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName keeps the plural form used by the admin reports.
func (StockMovement) TableName() string { return "stock_movements" }
