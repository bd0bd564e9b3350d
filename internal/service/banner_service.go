package service

import (
	"context"
	"errors"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BannerService manages the home carousel.
type BannerService interface {
	Create(ctx context.Context, req dto.SaveBannerRequest) (*dto.BannerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveBannerRequest) (*dto.BannerResponse, error)
	List(ctx context.Context) ([]dto.BannerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

type bannerService struct {
	repo       repository.BannerRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	pub        events.Publisher
}

func NewBannerService(
	repo repository.BannerRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	pub events.Publisher,
) BannerService {
	return &bannerService{repo: repo, products: products, categories: categories, pub: pub}
}

func (s *bannerService) Create(ctx context.Context, req dto.SaveBannerRequest) (*dto.BannerResponse, error) {
	b := &model.Banner{}
	if err := s.apply(ctx, b, req); err != nil {
		return nil, err
	}
	existing, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	b.SortOrder = len(existing)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	resp := mapBanner(*b)
	return &resp, nil
}

func (s *bannerService) Update(ctx context.Context, id uuid.UUID, req dto.SaveBannerRequest) (*dto.BannerResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}
	if err := s.apply(ctx, b, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	resp := mapBanner(*b)
	return &resp, nil
}

// apply sets exactly the link field that matches the link type and clears
// the others. The linked product or category must exist.
func (s *bannerService) apply(ctx context.Context, b *model.Banner, req dto.SaveBannerRequest) error {
	b.LinkedProductID = nil
	b.LinkedCategoryID = nil
	b.ExternalURL = nil

	switch req.LinkType {
	case model.BannerLinkProduct:
		if req.LinkedProductID == nil {
			return ErrBannerLink
		}
		id, err := uuid.Parse(*req.LinkedProductID)
		if err != nil {
			return ErrBannerLink
		}
		if _, err := s.products.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		b.LinkedProductID = &id
	case model.BannerLinkCategory:
		if req.LinkedCategoryID == nil {
			return ErrBannerLink
		}
		if _, err := s.categories.FindByID(ctx, *req.LinkedCategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		id := *req.LinkedCategoryID
		b.LinkedCategoryID = &id
	case model.BannerLinkExternal:
		if req.ExternalURL == nil || strings.TrimSpace(*req.ExternalURL) == "" {
			return ErrBannerLink
		}
		u := strings.TrimSpace(*req.ExternalURL)
		b.ExternalURL = &u
	case model.BannerLinkInformational:
	default:
		return ErrBannerLink
	}

	b.ImageURL = req.ImageURL
	b.Text = req.Text
	if b.Text != nil && strings.TrimSpace(*b.Text) == "" {
		b.Text = nil
	}
	b.Visible = req.Visible
	b.LinkType = req.LinkType
	return nil
}

func (s *bannerService) List(ctx context.Context) ([]dto.BannerResponse, error) {
	list, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BannerResponse, 0, len(list))
	for _, b := range list {
		out = append(out, mapBanner(b))
	}
	return out, nil
}

func (s *bannerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBannerNotFound
		}
		return err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	return nil
}

// Reorder assigns sort orders 0..n-1 following ids.
func (s *bannerService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	return nil
}
