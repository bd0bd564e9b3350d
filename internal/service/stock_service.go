package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"
	"github.com/DaviAleixo/pollyana3-sub000/internal/stock"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Locker serialises read-modify-write cycles on one key across instances.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// StockService covers immediate stock adjustments, the per-session pending
// changes of the stock screen, and the movement log.
type StockService interface {
	AdjustVariant(ctx context.Context, productID uuid.UUID, variantID string, delta int, note string) (*dto.StockView, error)
	AdjustProduct(ctx context.Context, productID uuid.UUID, delta int, note string) (*dto.StockView, error)

	Stage(ctx context.Context, session string, req dto.StageStockRequest) ([]dto.PendingChangeResponse, error)
	Pending(session string) []dto.PendingChangeResponse
	Preview(ctx context.Context, session string) ([]dto.StockView, error)
	DiscardProduct(session string, productID uuid.UUID)
	Discard(session string)
	Commit(ctx context.Context, session, note string) (*dto.CommitStockResponse, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	LowStock(ctx context.Context, threshold int) ([]dto.StockView, error)
}

type stockService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	locker    Locker
	pub       events.Publisher

	mu         sync.Mutex
	batches    map[string]*sessionBatch
	sessionTTL time.Duration // idle batches older than this are dropped; 0 keeps them
	now        func() time.Time
}

type sessionBatch struct {
	batch    *stock.Batch
	lastSeen time.Time
}

// NewStockService keeps pending batches per admin session. sessionTTL should
// match the token lifetime: once the token is gone nobody can commit them.
func NewStockService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	locker Locker,
	pub events.Publisher,
	sessionTTL time.Duration,
) StockService {
	return &stockService{
		products:   products,
		movements:  movements,
		locker:     locker,
		pub:        pub,
		batches:    make(map[string]*sessionBatch),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// ── Immediate adjustments ────────────────────────────────────────────────────

// AdjustVariant adds delta to one variant, clamped at zero, and writes the
// variant list, the recomputed aggregate and the movement in one unit.
// An id that is not one of the product's variants changes nothing.
func (s *stockService) AdjustVariant(ctx context.Context, productID uuid.UUID, variantID string, delta int, note string) (*dto.StockView, error) {
	unlock, err := s.locker.Lock(ctx, "stock:"+productID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.HasVariants() {
		return nil, ErrVariantUnexpected
	}

	updated, before, after, found := catalog.AdjustVariant(p.Variants, variantID, delta)
	if !found || before == after {
		view := stockView(*p, *p, false)
		return &view, nil
	}

	id := variantID
	u := stock.Update{
		ProductID: p.ID,
		Variants:  updated,
		Stock:     catalog.SumVariants(updated),
		Movements: []model.StockMovement{stock.NewMovement(p.ID, &id, before, after, note)},
	}
	if err := s.products.ApplyStockUpdates(ctx, []stock.Update{u}); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)

	saved := *p
	saved.Variants = updated
	saved.Stock = u.Stock
	view := stockView(saved, saved, false)
	return &view, nil
}

// AdjustProduct is AdjustVariant for products without variants.
func (s *stockService) AdjustProduct(ctx context.Context, productID uuid.UUID, delta int, note string) (*dto.StockView, error) {
	unlock, err := s.locker.Lock(ctx, "stock:"+productID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.HasVariants() {
		return nil, ErrVariantRequired
	}

	before := p.Stock
	after := catalog.AddStock(before, delta)
	if before == after {
		view := stockView(*p, *p, false)
		return &view, nil
	}
	u := stock.Update{
		ProductID: p.ID,
		Stock:     after,
		Movements: []model.StockMovement{stock.NewMovement(p.ID, nil, before, after, note)},
	}
	if err := s.products.ApplyStockUpdates(ctx, []stock.Update{u}); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, events.TopicCatalog)

	p.Stock = after
	view := stockView(*p, *p, false)
	return &view, nil
}

// ── Pending changes ──────────────────────────────────────────────────────────

func (s *stockService) batch(session string, create bool) *stock.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)
	sb, ok := s.batches[session]
	if !ok {
		if !create {
			return nil
		}
		sb = &sessionBatch{batch: stock.NewBatch()}
		s.batches[session] = sb
	}
	sb.lastSeen = now
	return sb.batch
}

func (s *stockService) evictLocked(now time.Time) {
	if s.sessionTTL <= 0 {
		return
	}
	for id, sb := range s.batches {
		if now.Sub(sb.lastSeen) > s.sessionTTL {
			if n := sb.batch.Len(); n > 0 {
				log.Warn().Int("pending", n).Msg("stock: dropping pending changes of expired session")
			}
			delete(s.batches, id)
		}
	}
}

// Stage validates every change first and only then records them, so a
// rejected request leaves the batch as it was. Changes aimed at variants
// the product does not have are skipped.
func (s *stockService) Stage(ctx context.Context, session string, req dto.StageStockRequest) ([]dto.PendingChangeResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.Changes))
	for _, c := range req.Changes {
		if c.Stock == nil && c.Delta == nil {
			return nil, ErrStockChange
		}
		id, err := uuid.Parse(c.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		ids = append(ids, id)
	}
	list, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(list))
	for i := range list {
		byID[list[i].ID] = &list[i]
	}
	for i, c := range req.Changes {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, ErrProductNotFound
		}
		if c.VariantID == "" && p.HasVariants() {
			return nil, ErrVariantRequired
		}
		if c.VariantID != "" && !p.HasVariants() {
			return nil, ErrVariantUnexpected
		}
	}

	b := s.batch(session, true)
	for i, c := range req.Changes {
		p := byID[ids[i]]
		if c.VariantID != "" && !hasVariant(p, c.VariantID) {
			continue
		}
		if c.Stock != nil {
			b.Set(p.ID, c.VariantID, *c.Stock)
		} else {
			b.Adjust(p, c.VariantID, *c.Delta)
		}
	}
	return mapPending(b.Pending()), nil
}

func hasVariant(p *model.Product, variantID string) bool {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return true
		}
	}
	return false
}

func (s *stockService) Pending(session string) []dto.PendingChangeResponse {
	b := s.batch(session, false)
	if b == nil {
		return []dto.PendingChangeResponse{}
	}
	return mapPending(b.Pending())
}

// Preview lists every product as the stock screen shows it: saved values
// with this session's pending values laid over them.
func (s *stockService) Preview(ctx context.Context, session string) ([]dto.StockView, error) {
	list, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	b := s.batch(session, false)
	touched := make(map[uuid.UUID]bool)
	if b != nil {
		for _, id := range b.Touched() {
			touched[id] = true
		}
	}

	out := make([]dto.StockView, 0, len(list))
	for _, p := range list {
		shown := p
		if touched[p.ID] {
			shown = b.Overlay(p)
		}
		out = append(out, stockView(p, shown, touched[p.ID]))
	}
	return out, nil
}

func (s *stockService) DiscardProduct(session string, productID uuid.UUID) {
	if b := s.batch(session, false); b != nil {
		b.Discard(productID)
	}
}

func (s *stockService) Discard(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, session)
}

// Commit writes every pending value of the session in one batched unit and
// clears what it wrote. Edits staged while the write is in flight stay
// pending. On failure the pending values are kept for a retry.
func (s *stockService) Commit(ctx context.Context, session, note string) (*dto.CommitStockResponse, error) {
	b := s.batch(session, false)
	if b == nil || b.Len() == 0 {
		return &dto.CommitStockResponse{}, nil
	}

	snap := b.Snapshot()
	products, err := s.products.FindByIDs(ctx, snap.Touched())
	if err != nil {
		return nil, err
	}
	updates := snap.Plan(products, note)
	if err := s.products.ApplyStockUpdates(ctx, updates); err != nil {
		return nil, err
	}
	b.Forget(snap.Pending())

	resp := &dto.CommitStockResponse{ProductsUpdated: len(updates)}
	for _, u := range updates {
		resp.Movements += len(u.Movements)
	}
	if len(updates) > 0 {
		s.pub.Publish(ctx, events.TopicCatalog)
	}
	return resp, nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	f := repository.StockMovementFilter{Direction: filter.Direction, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductID != "" {
		id, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		f.ProductID = &id
	}
	list, total, err := s.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page, limit := repository.NormalizePage(filter.Page, filter.Limit)
	resp := &dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, 0, len(list)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, m := range list {
		resp.Data = append(resp.Data, mapMovement(m))
	}
	return resp, nil
}

func (s *stockService) LowStock(ctx context.Context, threshold int) ([]dto.StockView, error) {
	list, err := s.products.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockView, 0, len(list))
	for _, p := range list {
		out = append(out, stockView(p, p, false))
	}
	return out, nil
}

func (s *stockService) findProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func stockView(saved, shown model.Product, pending bool) dto.StockView {
	return dto.StockView{
		ProductID:  saved.ID.String(),
		Name:       saved.Name,
		SavedStock: catalog.AggregateStock(&saved),
		Stock:      catalog.AggregateStock(&shown),
		Variants:   mapVariants(shown.Variants),
		Pending:    pending,
	}
}

func mapPending(changes []stock.Change) []dto.PendingChangeResponse {
	out := make([]dto.PendingChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.PendingChangeResponse{ProductID: c.ProductID.String(), VariantID: c.VariantID, Stock: c.Stock})
	}
	return out
}
