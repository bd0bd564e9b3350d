package service

import (
	"context"
	"errors"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"gorm.io/gorm"
)

// CategoryService defines admin operations on the category tree.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uint) error
	Reorder(ctx context.Context, req dto.ReorderCategoriesRequest) error
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Tree(ctx context.Context) ([]dto.CategoryTreeResponse, error)
}

type categoryService struct {
	repo repository.CategoryRepository
	pub  events.Publisher
}

func NewCategoryService(repo repository.CategoryRepository, pub events.Publisher) CategoryService {
	return &categoryService{repo: repo, pub: pub}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	parent := rootParent()
	if req.ParentID != nil {
		if !containsCategory(all, *req.ParentID) {
			return nil, ErrParentNotFound
		}
		parent = req.ParentID
	}

	name := strings.TrimSpace(req.Name)
	c := &model.Category{
		Name:      name,
		Slug:      catalog.Slugify(name),
		Visible:   req.Visible == nil || *req.Visible,
		ParentID:  parent,
		SortOrder: catalog.NextSortOrder(all, parent),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	resp := mapCategory(*c)
	return &resp, nil
}

// Update renames, moves or hides a category. Moves that would put a
// category under itself are rejected, and the root can only be renamed.
func (s *categoryService) Update(ctx context.Context, id uint, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	var c *model.Category
	for i := range all {
		if all[i].ID == id {
			c = &all[i]
			break
		}
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
		c.Slug = catalog.Slugify(c.Name)
	}
	if req.Visible != nil {
		if c.IsRoot() && !*req.Visible {
			return nil, ErrRootCategoryHidden
		}
		c.Visible = *req.Visible
	}

	moving := req.ClearParent || req.ParentID != nil
	if moving {
		if c.IsRoot() {
			return nil, catalog.ErrRootCategory
		}
		newParent := req.ParentID
		if req.ClearParent {
			newParent = rootParent()
		}
		if !containsCategory(all, *newParent) {
			return nil, ErrParentNotFound
		}
		if catalog.WouldCreateCycle(all, id, newParent) {
			return nil, catalog.ErrCategoryCycle
		}
		if !sameParentID(c.ParentID, newParent) {
			c.ParentID = newParent
			c.SortOrder = catalog.NextSortOrder(all, newParent)
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	resp := mapCategory(*c)
	return &resp, nil
}

// Delete removes a category: its children move up to its parent and its
// products move to the root, all in one transaction.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return err
	}
	plan, found, err := catalog.PlanDeletion(all, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrCategoryNotFound
	}
	if err := s.repo.Delete(ctx, plan); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	return nil
}

func (s *categoryService) Reorder(ctx context.Context, req dto.ReorderCategoriesRequest) error {
	orders := make([]repository.CategoryOrder, 0, len(req.Items))
	for _, it := range req.Items {
		orders = append(orders, repository.CategoryOrder{ID: it.ID, SortOrder: it.SortOrder})
	}
	if err := s.repo.Reorder(ctx, orders); err != nil {
		return err
	}
	s.pub.Publish(ctx, events.TopicCatalog)
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(all))
	for _, c := range all {
		out = append(out, mapCategory(c))
	}
	return out, nil
}

func (s *categoryService) Tree(ctx context.Context) ([]dto.CategoryTreeResponse, error) {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return mapCategoryTree(catalog.BuildTree(all)), nil
}

// rootParent is the parent of top-level categories: every category other
// than the root hangs somewhere below it.
func rootParent() *uint {
	id := model.RootCategoryID
	return &id
}

func containsCategory(all []model.Category, id uint) bool {
	for _, c := range all {
		if c.ID == id {
			return true
		}
	}
	return false
}

func sameParentID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
