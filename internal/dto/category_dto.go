package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateCategoryRequest without parent_id creates a top-level category.
type CreateCategoryRequest struct {
	Name     string `json:"name"      validate:"required,min=2,max=80"`
	ParentID *uint  `json:"parent_id" validate:"omitempty,min=1"`
	Visible  *bool  `json:"visible"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=2,max=80"`
	ParentID *uint   `json:"parent_id" validate:"omitempty,min=1"`
	// ClearParent moves the category to the top level, right under "Todos".
	ClearParent bool  `json:"clear_parent"`
	Visible     *bool `json:"visible"`
}

type ReorderCategoriesRequest struct {
	Items []CategoryOrderItem `json:"items" validate:"required,min=1,dive"`
}

type CategoryOrderItem struct {
	ID        uint `json:"id"         validate:"required,min=1"`
	SortOrder int  `json:"sort_order" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Visible   bool   `json:"visible"`
	ParentID  *uint  `json:"parent_id"`
	SortOrder int    `json:"sort_order"`
}

type CategoryTreeResponse struct {
	CategoryResponse
	Children []CategoryTreeResponse `json:"children"`
}
