package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaveBannerRequest struct {
	ImageURL         string  `json:"image_url"          validate:"required,url"`
	Text             *string `json:"text"               validate:"omitempty,max=200"`
	Visible          bool    `json:"visible"`
	LinkType         string  `json:"link_type"          validate:"required,oneof=product category external informational"`
	LinkedProductID  *string `json:"linked_product_id"  validate:"omitempty,uuid"`
	LinkedCategoryID *uint   `json:"linked_category_id" validate:"omitempty,min=1"`
	ExternalURL      *string `json:"external_url"       validate:"omitempty,url"`
}

type ReorderBannersRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BannerResponse struct {
	ID               string  `json:"id"`
	ImageURL         string  `json:"image_url"`
	Text             *string `json:"text"`
	Visible          bool    `json:"visible"`
	SortOrder        int     `json:"sort_order"`
	LinkType         string  `json:"link_type"`
	LinkedProductID  *string `json:"linked_product_id,omitempty"`
	LinkedCategoryID *uint   `json:"linked_category_id,omitempty"`
	ExternalURL      *string `json:"external_url,omitempty"`
}
