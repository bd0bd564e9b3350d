package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService is the admin side of products. Every successful write is
// announced on the catalog topic.
type ProductService interface {
	Create(ctx context.Context, req dto.SaveProductRequest) (*dto.ProductAdminResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveProductRequest) (*dto.ProductAdminResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductAdminResponse, error)
	List(ctx context.Context) ([]dto.ProductAdminResponse, error)
	SetVisible(ctx context.Context, id uuid.UUID, visible bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	pub        events.Publisher
	now        func() time.Time
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, pub events.Publisher) ProductService {
	return &productService{repo: repo, categories: categories, pub: pub, now: time.Now}
}

func (s *productService) Create(ctx context.Context, req dto.SaveProductRequest) (*dto.ProductAdminResponse, error) {
	p := &model.Product{}
	if err := s.apply(ctx, p, req, true); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	resp := mapProductAdmin(p)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.SaveProductRequest) (*dto.ProductAdminResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, req, false); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	resp := mapProductAdmin(p)
	return &resp, nil
}

// apply copies the form onto p and rebuilds the variant matrix. Existing
// (color, size) combinations keep their id and stock; the aggregate stock
// is recomputed from the variants whenever there are any.
func (s *productService) apply(ctx context.Context, p *model.Product, req dto.SaveProductRequest, creating bool) error {
	now := s.now()

	colors := make([]model.ProductColor, 0, len(req.Colors))
	for _, c := range req.Colors {
		colors = append(colors, model.ProductColor{
			Name:     strings.TrimSpace(c.Name),
			ImageURL: c.ImageURL,
			Custom:   c.Custom,
			Hex:      c.Hex,
		})
	}
	if err := catalog.ValidateColors(colors); err != nil {
		return err
	}

	// Expiry dates are only required to be in the future when they change,
	// so an old product can still be edited without touching its dates.
	discountExpiry := req.DiscountExpiresAt
	launchExpiry := req.LaunchExpiresAt
	if !creating {
		if sameTime(discountExpiry, p.DiscountExpiresAt) {
			discountExpiry = nil
		}
		if sameTime(launchExpiry, p.LaunchExpiresAt) {
			launchExpiry = nil
		}
	}
	if err := catalog.ValidateDiscount(req.DiscountActive, req.DiscountType, req.DiscountValue, discountExpiry, now); err != nil {
		return err
	}
	if err := catalog.ValidateLaunch(req.IsLaunch, launchExpiry, now); err != nil {
		return err
	}

	if creating || req.CategoryID != p.CategoryID {
		if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}

	var variants []model.ProductVariant
	if req.SizeScheme != "" && len(colors) > 0 {
		sizes := catalog.SizeLabels(req.SizeScheme)
		if sizes == nil {
			return catalog.ErrSizeScheme
		}
		variants = catalog.GenerateVariants(p.Variants, catalog.ColorNames(colors), sizes, nil)
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.ImageURL = req.ImageURL
	p.CategoryID = req.CategoryID
	p.Active = req.Active
	p.Visible = req.Visible
	p.SizeScheme = req.SizeScheme
	p.Colors = colors
	p.Variants = variants
	p.ImagePerColor = req.ImagePerColor
	p.DiscountActive = req.DiscountActive
	p.DiscountType = req.DiscountType
	p.DiscountValue = req.DiscountValue
	p.DiscountExpiresAt = req.DiscountExpiresAt
	p.IsLaunch = req.IsLaunch
	p.LaunchExpiresAt = req.LaunchExpiresAt
	if len(variants) == 0 {
		p.Stock = catalog.ClampStock(req.Stock)
	}
	catalog.SyncAggregate(p)
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductAdminResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapProductAdmin(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductAdminResponse, error) {
	list, err := s.repo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductAdminResponse, 0, len(list))
	for i := range list {
		out = append(out, mapProductAdmin(&list[i]))
	}
	return out, nil
}

func (s *productService) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	if err := s.repo.SetVisible(ctx, id, visible); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	return nil
}

func (s *productService) find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}
