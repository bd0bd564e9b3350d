package model

import "time"

// RootCategoryID is the universal "All" category. It cannot be deleted or hidden.
const RootCategoryID uint = 1

// Category is a node of the catalog tree. ParentID nil means top-level.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Slug      string `gorm:"index;not null"`
	Visible   bool   `gorm:"not null;default:true"`
	ParentID  *uint  `gorm:"index"`
	SortOrder int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether c is the "All" category.
func (c *Category) IsRoot() bool { return c.ID == RootCategoryID }
