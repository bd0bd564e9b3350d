package stock

import (
	"math"
	"testing"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variantProduct() model.Product {
	return model.Product{
		ID:    uuid.New(),
		Name:  "Blusa Canelada",
		Stock: 6,
		Variants: []model.ProductVariant{
			{ID: "p", Color: "Preto", Size: "P", Stock: 2},
			{ID: "m", Color: "Preto", Size: "M", Stock: 4},
		},
	}
}

func TestBatch_OverlayDoesNotTouchSource(t *testing.T) {
	b := NewBatch()
	p := variantProduct()

	b.Set(p.ID, "m", 10)
	view := b.Overlay(p)

	assert.Equal(t, 12, view.Stock)
	assert.Equal(t, 10, view.Variants[1].Stock)
	assert.Equal(t, 4, p.Variants[1].Stock)
	assert.Equal(t, 6, p.Stock)
}

func TestBatch_AdjustStacksAndClamps(t *testing.T) {
	b := NewBatch()
	p := variantProduct()

	v, ok := b.Adjust(&p, "p", 3)
	require.True(t, ok)
	assert.Equal(t, 5, v)

	v, ok = b.Adjust(&p, "p", -9)
	require.True(t, ok)
	assert.Equal(t, 0, v)

	_, ok = b.Adjust(&p, "ghost", -1)
	assert.False(t, ok)
	_, ok = b.Adjust(&p, "", 1)
	assert.False(t, ok, "variant products have no product-level stock to edit")
	assert.Equal(t, 1, b.Len())
}

func TestBatch_AdjustLargeDeltaDoesNotWipeStock(t *testing.T) {
	b := NewBatch()
	p := variantProduct()

	v, ok := b.Adjust(&p, "m", math.MaxInt)
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, v)

	updates := b.Plan([]model.Product{p}, "")
	require.Len(t, updates, 1)
	require.Len(t, updates[0].Movements, 1)
	assert.Equal(t, model.MovementIn, updates[0].Movements[0].Direction)
	assert.Equal(t, 4, updates[0].Movements[0].StockBefore)
}

func TestBatch_PlanRecomputesAggregateAndLogsMovements(t *testing.T) {
	b := NewBatch()
	p := variantProduct()
	plain := model.Product{ID: uuid.New(), Stock: 3}

	b.Set(p.ID, "p", 0)
	b.Set(p.ID, "m", 9)
	b.Set(p.ID, "removed-variant", 50)
	b.Set(plain.ID, "", 8)

	updates := b.Plan([]model.Product{p, plain}, "inventário")
	require.Len(t, updates, 2)

	u := updates[0]
	assert.Equal(t, p.ID, u.ProductID)
	assert.Equal(t, 9, u.Stock)
	assert.Equal(t, catalog.SumVariants(u.Variants), u.Stock)
	require.Len(t, u.Movements, 2)
	assert.Equal(t, model.MovementOut, u.Movements[0].Direction)
	assert.Equal(t, 2, u.Movements[0].Quantity)
	assert.Equal(t, "p", *u.Movements[0].VariantID)
	assert.Equal(t, model.MovementIn, u.Movements[1].Direction)
	assert.Equal(t, 5, u.Movements[1].Quantity)
	assert.Equal(t, "inventário", u.Movements[1].Note)

	assert.Nil(t, updates[1].Variants)
	assert.Equal(t, 8, updates[1].Stock)
	require.Len(t, updates[1].Movements, 1)
	assert.Nil(t, updates[1].Movements[0].VariantID)
}

func TestBatch_PlanSkipsUnchanged(t *testing.T) {
	b := NewBatch()
	p := variantProduct()
	b.Set(p.ID, "m", 4)

	assert.Empty(t, b.Plan([]model.Product{p}, ""))
}

func TestBatch_PendingAndDiscard(t *testing.T) {
	b := NewBatch()
	a, c := uuid.New(), uuid.New()
	b.Set(a, "2", 1)
	b.Set(a, "1", -4)
	b.Set(c, "", 7)

	pending := b.Pending()
	require.Len(t, pending, 3)
	for _, ch := range pending {
		if ch.ProductID == a && ch.VariantID == "1" {
			assert.Equal(t, 0, ch.Stock)
		}
	}
	assert.ElementsMatch(t, []uuid.UUID{a, c}, b.Touched())

	b.Discard(a)
	assert.Equal(t, []Change{{ProductID: c, Stock: 7}}, b.Pending())

	b.Reset()
	assert.Zero(t, b.Len())
}

func TestBatch_ForgetKeepsEditsMadeAfterSnapshot(t *testing.T) {
	b := NewBatch()
	p := variantProduct()
	b.Set(p.ID, "p", 7)
	b.Set(p.ID, "m", 1)

	snap := b.Snapshot()
	b.Set(p.ID, "m", 9)

	b.Forget(snap.Pending())
	assert.Equal(t, []Change{{ProductID: p.ID, VariantID: "m", Stock: 9}}, b.Pending())
	assert.Equal(t, 2, snap.Len())
}
