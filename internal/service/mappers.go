package service

import (
	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
)

// ── Products ─────────────────────────────────────────────────────────────────

func mapPrice(p *model.Product) dto.PriceResponse {
	b := catalog.Breakdown(p)
	return dto.PriceResponse{
		Original:       b.Original,
		Effective:      b.Effective,
		Savings:        b.Savings,
		SavingsPercent: b.SavingsPercent,
		HasDiscount:    b.Valid,
	}
}

func mapProductCard(p *model.Product, categoryNames map[uint]string) dto.ProductCard {
	return dto.ProductCard{
		ID:           p.ID.String(),
		Name:         p.Name,
		ImageURL:     p.ImageURL,
		CategoryID:   p.CategoryID,
		CategoryName: categoryNames[p.CategoryID],
		Price:        mapPrice(p),
		IsLaunch:     catalog.IsLaunchValid(p),
		InStock:      catalog.AggregateStock(p) > 0,
	}
}

func mapVariants(variants []model.ProductVariant) []dto.VariantResponse {
	out := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, dto.VariantResponse{ID: v.ID, Color: v.Color, Size: v.Size, Stock: v.Stock})
	}
	return out
}

// mapProductDetail lists every palette color; colors without stock in any
// size are marked unavailable instead of hidden.
func mapProductDetail(p *model.Product, categoryNames map[uint]string) dto.ProductDetail {
	available := make(map[string]bool)
	for _, c := range catalog.AvailableColors(p) {
		available[c] = true
	}
	colors := make([]dto.ColorOption, 0, len(p.Colors))
	for _, c := range p.Colors {
		colors = append(colors, dto.ColorOption{
			Name:      c.Name,
			Hex:       c.Hex,
			ImageURL:  p.ColorImage(c.Name),
			Available: available[c.Name],
			Sizes:     catalog.AvailableSizes(p, c.Name),
		})
	}
	return dto.ProductDetail{
		ProductCard: mapProductCard(p, categoryNames),
		Description: p.Description,
		SizeScheme:  p.SizeScheme,
		Colors:      colors,
		Stock:       catalog.AggregateStock(p),
	}
}

func mapProductAdmin(p *model.Product) dto.ProductAdminResponse {
	colors := make([]dto.ColorInput, 0, len(p.Colors))
	for _, c := range p.Colors {
		colors = append(colors, dto.ColorInput{Name: c.Name, ImageURL: c.ImageURL, Custom: c.Custom, Hex: c.Hex})
	}
	return dto.ProductAdminResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		ImageURL:          p.ImageURL,
		CategoryID:        p.CategoryID,
		Active:            p.Active,
		Visible:           p.Visible,
		Stock:             p.Stock,
		SizeScheme:        p.SizeScheme,
		Colors:            colors,
		Variants:          mapVariants(p.Variants),
		ImagePerColor:     p.ImagePerColor,
		DiscountActive:    p.DiscountActive,
		DiscountType:      p.DiscountType,
		DiscountValue:     p.DiscountValue,
		DiscountExpiresAt: p.DiscountExpiresAt,
		IsLaunch:          p.IsLaunch,
		LaunchExpiresAt:   p.LaunchExpiresAt,
		Pricing:           mapPrice(p),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ── Categories ───────────────────────────────────────────────────────────────

func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Visible:   c.Visible,
		ParentID:  c.ParentID,
		SortOrder: c.SortOrder,
	}
}

func mapCategoryTree(nodes []catalog.CategoryNode) []dto.CategoryTreeResponse {
	out := make([]dto.CategoryTreeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.CategoryTreeResponse{
			CategoryResponse: mapCategory(n.Category),
			Children:         mapCategoryTree(n.Children),
		})
	}
	return out
}

func categoryNames(categories []model.Category) map[uint]string {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// ── Banners ──────────────────────────────────────────────────────────────────

func mapBanner(b model.Banner) dto.BannerResponse {
	resp := dto.BannerResponse{
		ID:               b.ID.String(),
		ImageURL:         b.ImageURL,
		Text:             b.Text,
		Visible:          b.Visible,
		SortOrder:        b.SortOrder,
		LinkType:         b.LinkType,
		LinkedCategoryID: b.LinkedCategoryID,
		ExternalURL:      b.ExternalURL,
	}
	if b.LinkedProductID != nil {
		id := b.LinkedProductID.String()
		resp.LinkedProductID = &id
	}
	return resp
}

// ── Stock ────────────────────────────────────────────────────────────────────

func mapMovement(m model.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		VariantID:   m.VariantID,
		Direction:   m.Direction,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// ── Shipping ─────────────────────────────────────────────────────────────────

func mapShippingConfig(cfg *model.ShippingConfig) dto.ShippingConfigResponse {
	tiers := make([]dto.ShippingTierRequest, 0, len(cfg.Tiers))
	for _, t := range cfg.Tiers {
		tiers = append(tiers, dto.ShippingTierRequest{City: t.City, Fee: t.Fee, EstimatedDays: t.EstimatedDays})
	}
	return dto.ShippingConfigResponse{
		OriginCity:            cfg.OriginCity,
		LocalFee:              cfg.LocalFee,
		DefaultFee:            cfg.DefaultFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		DeliveryNote:          cfg.DeliveryNote,
		Tiers:                 tiers,
	}
}
