package model

import (
	"time"

	"github.com/google/uuid"
)

// Banner link types.
const (
	BannerLinkProduct       = "product"
	BannerLinkCategory      = "category"
	BannerLinkExternal      = "external"
	BannerLinkInformational = "informational"
)

// Banner is a home carousel slide. Exactly the field matching LinkType is
// populated; informational banners link nowhere.
type Banner struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ImageURL         string    `gorm:"not null"`
	Text             *string
	Visible          bool       `gorm:"not null;default:true"`
	SortOrder        int        `gorm:"not null;default:0"`
	LinkType         string     `gorm:"not null;default:'informational'"`
	LinkedProductID  *uuid.UUID `gorm:"type:uuid"`
	LinkedCategoryID *uint
	ExternalURL      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
