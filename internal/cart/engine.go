package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
)

var (
	ErrInvalidQuantity    = errors.New("quantidade inválida")
	ErrVariantNotFound    = errors.New("combinação de cor e tamanho indisponível")
	ErrStockExceeded      = errors.New("quantidade solicitada maior que o estoque disponível")
	ErrItemNotFound       = errors.New("item não está no carrinho")
	ErrProductUnavailable = errors.New("produto indisponível")
)

// Engine applies cart mutations. Calls on the same cart are serialised, so
// the stock check and the write of one call cannot interleave with another
// call on that cart. Every successful mutation is published on the cart topic.
type Engine struct {
	store Store
	pub   events.Publisher
	now   func() time.Time
	locks *keyedMutex
}

func NewEngine(store Store, pub events.Publisher) *Engine {
	return &Engine{store: store, pub: pub, now: time.Now, locks: newKeyedMutex()}
}

// Items returns the cart lines in insertion order.
func (e *Engine) Items(ctx context.Context, cartID string) ([]Item, error) {
	items, err := e.store.Load(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// AddItem adds qty units of the (color, size) variant of p. Products without
// variants are capped by their own stock. When the line exists the combined
// quantity must fit the current stock, otherwise the cart is left untouched.
func (e *Engine) AddItem(ctx context.Context, cartID string, p *model.Product, color, size string, qty int) ([]Item, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !p.Active || !p.Visible {
		return nil, ErrProductUnavailable
	}

	ceiling := p.Stock
	if p.HasVariants() {
		v, ok := catalog.FindVariant(p.Variants, color, size)
		if !ok {
			return nil, ErrVariantNotFound
		}
		ceiling = v.Stock
	}

	unlock := e.locks.lock(cartID)
	defer unlock()

	items, err := e.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}

	id := ItemID(p.ID, color, size)
	if i := indexOf(items, id); i >= 0 {
		if qty > ceiling-items[i].Quantity {
			return nil, ErrStockExceeded
		}
		items[i].Quantity += qty
		items[i].MaxStock = ceiling
	} else {
		if qty > ceiling {
			return nil, ErrStockExceeded
		}
		items = append(items, e.newItem(p, id, color, size, qty, ceiling))
	}

	return e.commit(ctx, cartID, items)
}

func (e *Engine) newItem(p *model.Product, id, color, size string, qty, ceiling int) Item {
	it := Item{
		ID:              id,
		ProductID:       p.ID,
		Name:            p.Name,
		ImageURL:        p.ColorImage(color),
		Color:           color,
		Size:            size,
		Quantity:        qty,
		MaxStock:        ceiling,
		OriginalPrice:   p.Price,
		DiscountedPrice: catalog.EffectivePrice(p),
		AddedAt:         e.now().UTC(),
	}
	if catalog.IsDiscountValid(p) {
		value := p.DiscountValue
		it.DiscountType = p.DiscountType
		it.DiscountValue = &value
		if p.DiscountExpiresAt != nil {
			exp := *p.DiscountExpiresAt
			it.DiscountExpiresAt = &exp
		}
	}
	return it
}

// UpdateQuantity replaces a line quantity. qty <= 0 removes the line.
func (e *Engine) UpdateQuantity(ctx context.Context, cartID, itemID string, qty int) ([]Item, error) {
	unlock := e.locks.lock(cartID)
	defer unlock()

	items, err := e.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	i := indexOf(items, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	switch {
	case qty <= 0:
		items = append(items[:i], items[i+1:]...)
	case qty > items[i].MaxStock:
		return nil, ErrStockExceeded
	default:
		items[i].Quantity = qty
	}
	return e.commit(ctx, cartID, items)
}

// RemoveItem drops a line. Removing an absent line changes nothing and
// publishes nothing.
func (e *Engine) RemoveItem(ctx context.Context, cartID, itemID string) ([]Item, error) {
	unlock := e.locks.lock(cartID)
	defer unlock()

	items, err := e.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	i := indexOf(items, itemID)
	if i < 0 {
		return items, nil
	}
	items = append(items[:i], items[i+1:]...)
	return e.commit(ctx, cartID, items)
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context, cartID string) error {
	unlock := e.locks.lock(cartID)
	defer unlock()

	if err := e.store.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	e.pub.Publish(ctx, events.CartTopic(cartID))
	return nil
}

func (e *Engine) commit(ctx context.Context, cartID string, items []Item) ([]Item, error) {
	if err := e.store.Save(ctx, cartID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	e.pub.Publish(ctx, events.CartTopic(cartID))
	return items, nil
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
