package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// The snapshot key carries the value of catalogVersionKey at read time.
// Invalidation bumps the version, so a snapshot loaded before an admin write
// lands under a key nobody reads any more.
const (
	catalogVersionKey  = "catalog:version"
	catalogSnapshotKey = "catalog:snapshot:"
)

// snapshotCache is the slice of *redis.Client the catalog cache needs.
type snapshotCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

var _ snapshotCache = (*redis.Client)(nil)

// CatalogService is the read side of the storefront. Every read goes through
// one snapshot of the storefront products and visible categories; store
// failures are logged and read as an empty catalog.
type CatalogService interface {
	Browse(ctx context.Context, q dto.CatalogQuery) []dto.ProductCard
	Product(ctx context.Context, id uuid.UUID) (*dto.ProductDetail, error)
	NewArrivals(ctx context.Context) []dto.ProductCard
	Banners(ctx context.Context) []dto.BannerResponse
	CategoryTree(ctx context.Context) []dto.CategoryTreeResponse
}

type catalogSnapshot struct {
	Products   []model.Product  `json:"products"`
	Categories []model.Category `json:"categories"`
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	banners    repository.BannerRepository
	cache      snapshotCache // nil disables the snapshot cache
	ttl        time.Duration
}

// NewCatalogService subscribes to the catalog topic so that any admin write
// drops the cached snapshot.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	banners repository.BannerRepository,
	rdb *redis.Client,
	sub events.Subscriber,
	ttl time.Duration,
) CatalogService {
	s := &catalogService{products: products, categories: categories, banners: banners, ttl: ttl}
	if rdb != nil && ttl > 0 {
		s.cache = rdb
	}
	if sub != nil {
		sub.Subscribe(events.TopicCatalog, func(events.Event) { s.invalidate() })
	}
	return s
}

func (s *catalogService) Browse(ctx context.Context, q dto.CatalogQuery) []dto.ProductCard {
	snap := s.snapshot(ctx)

	query := catalog.Query{Search: q.Search, Sort: catalog.ParseSort(q.Sort)}
	switch raw := strings.TrimSpace(q.Category); {
	case raw == "":
	case raw == catalog.PromotionSlug:
		query.Promotion = true
	default:
		id, ok := resolveCategory(snap.Categories, raw)
		if !ok {
			return []dto.ProductCard{}
		}
		query.CategoryID = id
	}

	return s.cards(catalog.Apply(snap.Products, snap.Categories, query), snap.Categories)
}

// resolveCategory accepts a numeric id or a slug.
func resolveCategory(categories []model.Category, raw string) (uint, bool) {
	if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
		return uint(n), true
	}
	for _, c := range categories {
		if c.Slug == raw {
			return c.ID, true
		}
	}
	return 0, false
}

func (s *catalogService) Product(ctx context.Context, id uuid.UUID) (*dto.ProductDetail, error) {
	snap := s.snapshot(ctx)
	for i := range snap.Products {
		if snap.Products[i].ID == id {
			detail := mapProductDetail(&snap.Products[i], categoryNames(snap.Categories))
			return &detail, nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *catalogService) NewArrivals(ctx context.Context) []dto.ProductCard {
	snap := s.snapshot(ctx)
	return s.cards(catalog.NewArrivals(snap.Products), snap.Categories)
}

func (s *catalogService) Banners(ctx context.Context) []dto.BannerResponse {
	list, err := s.banners.List(ctx, true)
	if err != nil {
		log.Error().Err(err).Str("entity", "banner").Str("op", "list").Msg("store read failed, serving empty result")
		return []dto.BannerResponse{}
	}
	out := make([]dto.BannerResponse, 0, len(list))
	for _, b := range list {
		out = append(out, mapBanner(b))
	}
	return out
}

func (s *catalogService) CategoryTree(ctx context.Context) []dto.CategoryTreeResponse {
	snap := s.snapshot(ctx)
	return mapCategoryTree(catalog.BuildTree(snap.Categories))
}

func (s *catalogService) cards(products []model.Product, categories []model.Category) []dto.ProductCard {
	names := categoryNames(categories)
	out := make([]dto.ProductCard, 0, len(products))
	for i := range products {
		out = append(out, mapProductCard(&products[i], names))
	}
	return out
}

// ── Snapshot ─────────────────────────────────────────────────────────────────

func (s *catalogService) snapshot(ctx context.Context) catalogSnapshot {
	version, cacheable := s.version(ctx)
	if cacheable {
		if snap, ok := s.cached(ctx, version); ok {
			return snap
		}
	}

	degraded := false
	products, err := s.products.List(ctx, repository.ProductFilter{StorefrontOnly: true})
	if err != nil {
		log.Error().Err(err).Str("entity", "product").Str("op", "list").Msg("store read failed, serving empty result")
		degraded = true
	}
	categories, err := s.categories.List(ctx, true)
	if err != nil {
		log.Error().Err(err).Str("entity", "category").Str("op", "list").Msg("store read failed, serving empty result")
		degraded = true
	}
	snap := catalogSnapshot{Products: nonNil(products), Categories: nonNil(categories)}

	// Degraded snapshots are not cached so the next request retries the store.
	if cacheable && !degraded {
		s.store(ctx, version, snap)
	}
	return snap
}

// version reads the current snapshot generation. A missing counter is
// generation 0; an unreachable cache disables caching for this read.
func (s *catalogService) version(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	v, err := s.cache.Get(ctx, catalogVersionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		log.Warn().Err(err).Msg("catalog cache: version read failed")
		return 0, false
	}
	return v, true
}

func snapshotKey(version int64) string {
	return catalogSnapshotKey + strconv.FormatInt(version, 10)
}

func (s *catalogService) cached(ctx context.Context, version int64) (catalogSnapshot, bool) {
	var snap catalogSnapshot
	raw, err := s.cache.Get(ctx, snapshotKey(version)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("catalog cache: read failed")
		}
		return snap, false
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Warn().Err(err).Msg("catalog cache: undecodable snapshot, ignoring it")
		return catalogSnapshot{}, false
	}
	snap.Products = nonNil(snap.Products)
	snap.Categories = nonNil(snap.Categories)
	return snap, true
}

func (s *catalogService) store(ctx context.Context, version int64, snap catalogSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache: encode failed")
		return
	}
	if err := s.cache.Set(ctx, snapshotKey(version), raw, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache: write failed")
	}
}

func (s *catalogService) invalidate() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Incr(ctx, catalogVersionKey).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache: invalidate failed")
	}
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
