package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"
	"github.com/DaviAleixo/pollyana3-sub000/internal/stock"
	"github.com/DaviAleixo/pollyana3-sub000/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStore = errors.New("store unavailable")

// ── Products ──────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*model.Product
	order     []uuid.UUID
	movements []model.StockMovement
	failList  bool
	failApply bool
	// onApply runs once at the start of ApplyStockUpdates, outside the lock.
	onApply   func()
	// afterList runs once after List has read its result, outside the lock.
	afterList func()
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo(products ...model.Product) *stubProductRepo {
	r := &stubProductRepo{items: make(map[uuid.UUID]*model.Product)}
	for i := range products {
		p := products[i]
		_ = r.Create(context.Background(), &p)
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.items[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Variants = append([]model.ProductVariant(nil), p.Variants...)
	return &cp, nil
}

func (r *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, err := r.FindByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	out, err := r.list(filter)
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return out, err
}

func (r *stubProductRepo) list(filter repository.ProductFilter) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errStore
	}
	out := []model.Product{}
	for _, id := range r.order {
		p, ok := r.items[id]
		if !ok {
			continue
		}
		if filter.StorefrontOnly && !(p.Active && p.Visible) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) SetVisible(_ context.Context, id uuid.UUID, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Visible = visible
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubProductRepo) LowStock(_ context.Context, threshold int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, id := range r.order {
		if p, ok := r.items[id]; ok && p.Active && p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ApplyStockUpdates(_ context.Context, updates []stock.Update) error {
	if hook := r.onApply; hook != nil {
		r.onApply = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failApply {
		return errStore
	}
	for _, u := range updates {
		if _, ok := r.items[u.ProductID]; !ok {
			return gorm.ErrRecordNotFound
		}
	}
	for _, u := range updates {
		p := r.items[u.ProductID]
		p.Stock = u.Stock
		if u.Variants != nil {
			p.Variants = u.Variants
		}
		r.movements = append(r.movements, u.Movements...)
	}
	return nil
}

// ── Categories ────────────────────────────────────────────────────────────────

type stubCategoryRepo struct {
	mu        sync.Mutex
	items     map[uint]*model.Category
	nextID    uint
	failList  bool
	deleted   []catalog.DeletionPlan
	reordered []repository.CategoryOrder
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func newStubCategoryRepo(categories ...model.Category) *stubCategoryRepo {
	r := &stubCategoryRepo{items: make(map[uint]*model.Category), nextID: 1}
	for i := range categories {
		c := categories[i]
		r.items[c.ID] = &c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context, visibleOnly bool) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errStore
	}
	out := []model.Category{}
	for _, c := range r.items {
		if visibleOnly && !c.Visible {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uint) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, plan catalog.DeletionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, child := range plan.Children {
		r.items[child].ParentID = plan.NewParent
	}
	delete(r.items, plan.CategoryID)
	r.deleted = append(r.deleted, plan)
	return nil
}

func (r *stubCategoryRepo) Reorder(_ context.Context, orders []repository.CategoryOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reordered = append(r.reordered, orders...)
	return nil
}

// ── Banners ───────────────────────────────────────────────────────────────────

type stubBannerRepo struct {
	items    []model.Banner
	failList bool
}

var _ repository.BannerRepository = (*stubBannerRepo)(nil)

func (r *stubBannerRepo) Create(_ context.Context, b *model.Banner) error {
	b.ID = uuid.New()
	r.items = append(r.items, *b)
	return nil
}

func (r *stubBannerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Banner, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			b := r.items[i]
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBannerRepo) List(_ context.Context, visibleOnly bool) ([]model.Banner, error) {
	if r.failList {
		return nil, errStore
	}
	out := []model.Banner{}
	for _, b := range r.items {
		if visibleOnly && !b.Visible {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *stubBannerRepo) Update(_ context.Context, b *model.Banner) error {
	for i := range r.items {
		if r.items[i].ID == b.ID {
			r.items[i] = *b
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubBannerRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubBannerRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	for order, id := range ids {
		for i := range r.items {
			if r.items[i].ID == id {
				r.items[i].SortOrder = order
			}
		}
	}
	return nil
}

// ── Shipping ──────────────────────────────────────────────────────────────────

type stubShippingRepo struct {
	cfg  *model.ShippingConfig
	fail bool
}

var _ repository.ShippingRepository = (*stubShippingRepo)(nil)

func (r *stubShippingRepo) Get(context.Context) (*model.ShippingConfig, error) {
	if r.fail {
		return nil, errStore
	}
	if r.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.cfg
	return &cp, nil
}

func (r *stubShippingRepo) Save(_ context.Context, cfg *model.ShippingConfig) error {
	cp := *cfg
	r.cfg = &cp
	return nil
}

// ── Movements / clicks ────────────────────────────────────────────────────────

type stubMovementRepo struct{ items []model.StockMovement }

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	r.items = append(r.items, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.items {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Direction != "" && m.Direction != filter.Direction {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

type stubClickRepo struct{ stats []model.ClickStat }

var _ repository.ClickRepository = (*stubClickRepo)(nil)

func (r *stubClickRepo) Increment(_ context.Context, targetType, targetID string, n int64, at time.Time) error {
	r.stats = append(r.stats, model.ClickStat{TargetType: targetType, TargetID: targetID, Clicks: n, LastClickAt: at})
	return nil
}

func (r *stubClickRepo) Top(_ context.Context, targetType string, _ int) ([]model.ClickStat, error) {
	var out []model.ClickStat
	for _, s := range r.stats {
		if targetType == "" || s.TargetType == targetType {
			out = append(out, s)
		}
	}
	return out, nil
}

type stubQueue struct {
	payloads []worker.ClickPayload
	fail     bool
}

func (q *stubQueue) EnqueueClick(_ context.Context, p worker.ClickPayload) error {
	if q.fail {
		return errStore
	}
	q.payloads = append(q.payloads, p)
	return nil
}

// ── Infra ─────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	topics []events.Topic
}

func (p *recordingPublisher) Publish(_ context.Context, topic events.Topic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
}

func (p *recordingPublisher) count(topic events.Topic) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

type noopLocker struct{ keys []string }

func (l *noopLocker) Lock(_ context.Context, key string) (func(), error) {
	l.keys = append(l.keys, key)
	return func() {}, nil
}

func uptr(v uint) *uint { return &v }
