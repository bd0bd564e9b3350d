// Package stock implements the pending-changes workflow of the stock screen:
// edits accumulate in a Batch, readers of the store keep seeing the saved
// values, and Plan turns the batch into one write unit per product.
package stock

import (
	"bytes"
	"sort"
	"sync"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/google/uuid"
)

// Change is one pending value. VariantID is empty for products without
// variants, where the product stock itself is edited.
type Change struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Stock     int       `json:"stock"`
}

// Update is the batched write for one product: the full variant list, the
// recomputed aggregate and the movements explaining the difference.
type Update struct {
	ProductID uuid.UUID
	Variants  []model.ProductVariant
	Stock     int
	Movements []model.StockMovement
}

type key struct {
	product uuid.UUID
	variant string
}

// Batch is safe for concurrent use.
type Batch struct {
	mu      sync.Mutex
	pending map[key]int
}

func NewBatch() *Batch {
	return &Batch{pending: make(map[key]int)}
}

// Set stages an absolute stock value, floored at zero.
func (b *Batch) Set(productID uuid.UUID, variantID string, stock int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[key{productID, variantID}] = catalog.ClampStock(stock)
}

// Adjust stages current+delta where current already includes earlier
// pending edits. It reports false when variantID is not one of p's variants.
func (b *Batch) Adjust(p *model.Product, variantID string, delta int) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, ok := b.currentLocked(p, variantID)
	if !ok {
		return 0, false
	}
	next := catalog.AddStock(current, delta)
	b.pending[key{p.ID, variantID}] = next
	return next, true
}

func (b *Batch) currentLocked(p *model.Product, variantID string) (int, bool) {
	if v, ok := b.pending[key{p.ID, variantID}]; ok {
		return v, true
	}
	if variantID == "" {
		if p.HasVariants() {
			return 0, false
		}
		return p.Stock, true
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v.Stock, true
		}
	}
	return 0, false
}

// Discard drops every pending value of one product.
func (b *Batch) Discard(productID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.pending {
		if k.product == productID {
			delete(b.pending, k)
		}
	}
}

// Snapshot copies the batch so it can be planned and written while new edits
// keep landing in b.
func (b *Batch) Snapshot() *Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make(map[key]int, len(b.pending))
	for k, v := range b.pending {
		cp[k] = v
	}
	return &Batch{pending: cp}
}

// Forget drops the given values once they are saved. A key staged again
// with a different value since the snapshot is kept.
func (b *Batch) Forget(saved []Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range saved {
		k := key{c.ProductID, c.VariantID}
		if v, ok := b.pending[k]; ok && v == c.Stock {
			delete(b.pending, k)
		}
	}
}

// Reset drops everything.
func (b *Batch) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = make(map[key]int)
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Pending lists staged values ordered by product then variant.
func (b *Batch) Pending() []Change {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Change, 0, len(b.pending))
	for k, v := range b.pending {
		out = append(out, Change{ProductID: k.product, VariantID: k.variant, Stock: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].ProductID[:], out[j].ProductID[:]); c != 0 {
			return c < 0
		}
		return out[i].VariantID < out[j].VariantID
	})
	return out
}

// Touched lists the products with pending values.
func (b *Batch) Touched() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, c := range b.Pending() {
		if !seen[c.ProductID] {
			seen[c.ProductID] = true
			out = append(out, c.ProductID)
		}
	}
	return out
}

// Overlay returns p as it would look after commit. p is not modified.
func (b *Batch) Overlay(p model.Product) model.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlayLocked(p)
}

func (b *Batch) overlayLocked(p model.Product) model.Product {
	if p.HasVariants() {
		variants := make([]model.ProductVariant, len(p.Variants))
		copy(variants, p.Variants)
		for i := range variants {
			if v, ok := b.pending[key{p.ID, variants[i].ID}]; ok {
				variants[i].Stock = v
			}
		}
		p.Variants = variants
		catalog.SyncAggregate(&p)
		return p
	}
	if v, ok := b.pending[key{p.ID, ""}]; ok {
		p.Stock = v
	}
	return p
}

// Plan builds one Update per product in products that actually changes.
// Pending values for variants the product no longer has are ignored.
func (b *Batch) Plan(products []model.Product, note string) []Update {
	b.mu.Lock()
	defer b.mu.Unlock()

	var updates []Update
	for _, p := range products {
		next := b.overlayLocked(p)
		var moves []model.StockMovement
		if p.HasVariants() {
			for i, v := range p.Variants {
				if after := next.Variants[i].Stock; after != v.Stock {
					id := v.ID
					moves = append(moves, NewMovement(p.ID, &id, v.Stock, after, note))
				}
			}
		} else if next.Stock != p.Stock {
			moves = append(moves, NewMovement(p.ID, nil, p.Stock, next.Stock, note))
		}
		if len(moves) == 0 && next.Stock == p.Stock {
			continue
		}
		updates = append(updates, Update{
			ProductID: p.ID,
			Variants:  next.Variants,
			Stock:     next.Stock,
			Movements: moves,
		})
	}
	return updates
}

// NewMovement builds the log row for a single stock change.
func NewMovement(productID uuid.UUID, variantID *string, before, after int, note string) model.StockMovement {
	m := model.StockMovement{
		ProductID:   productID,
		VariantID:   variantID,
		StockBefore: before,
		StockAfter:  after,
		Note:        note,
		Direction:   model.MovementIn,
		Quantity:    after - before,
	}
	if after < before {
		m.Direction = model.MovementOut
		m.Quantity = before - after
	}
	return m
}
