package service

import (
	"context"
	"testing"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rootCategory() model.Category {
	return model.Category{ID: model.RootCategoryID, Name: "Todos", Slug: "todos", Visible: true}
}

func newProductFixture() (*productService, *stubProductRepo, *recordingPublisher) {
	repo := newStubProductRepo()
	categories := newStubCategoryRepo(
		rootCategory(),
		model.Category{ID: 2, Name: "Vestidos", Slug: "vestidos", Visible: true, ParentID: uptr(1)},
	)
	pub := &recordingPublisher{}
	svc := NewProductService(repo, categories, pub).(*productService)
	return svc, repo, pub
}

func dressRequest() dto.SaveProductRequest {
	return dto.SaveProductRequest{
		Name:       "Vestido Midi",
		Price:      decimal.NewFromInt(150),
		CategoryID: 2,
		Active:     true,
		Visible:    true,
		SizeScheme: model.SizeSchemeLetters,
		Colors:     []dto.ColorInput{{Name: "Preto"}, {Name: "Branco"}},
	}
}

func TestProductCreate_GeneratesVariantMatrix(t *testing.T) {
	svc, _, pub := newProductFixture()

	resp, err := svc.Create(context.Background(), dressRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Variants, 10) // 2 colors × 5 letter sizes
	assert.Equal(t, 0, resp.Stock)
	assert.Equal(t, 1, pub.count(events.TopicCatalog))
}

func TestProductUpdate_PreservesExistingVariantStock(t *testing.T) {
	svc, repo, _ := newProductFixture()
	created, err := svc.Create(context.Background(), dressRequest())
	require.NoError(t, err)

	id := uuid.MustParse(created.ID)
	p, _ := repo.FindByID(context.Background(), id)
	for i := range p.Variants {
		if p.Variants[i].Color == "Preto" && p.Variants[i].Size == "M" {
			p.Variants[i].Stock = 7
		}
	}
	catalog.SyncAggregate(p)
	require.NoError(t, repo.Update(context.Background(), p))

	req := dressRequest()
	req.Colors = []dto.ColorInput{{Name: "Preto"}, {Name: "Vermelho"}}
	updated, err := svc.Update(context.Background(), id, req)
	require.NoError(t, err)

	assert.Len(t, updated.Variants, 10)
	var blackM *dto.VariantResponse
	for i := range updated.Variants {
		assert.NotEqual(t, "Branco", updated.Variants[i].Color)
		if updated.Variants[i].Color == "Preto" && updated.Variants[i].Size == "M" {
			blackM = &updated.Variants[i]
		}
	}
	require.NotNil(t, blackM)
	assert.Equal(t, 7, blackM.Stock)
	assert.Equal(t, 7, updated.Stock)
}

func TestProductCreate_WithoutVariantsKeepsFormStock(t *testing.T) {
	svc, _, _ := newProductFixture()
	req := dressRequest()
	req.SizeScheme = ""
	req.Colors = nil
	req.Stock = 12

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Variants)
	assert.Equal(t, 12, resp.Stock)
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	svc, _, pub := newProductFixture()
	req := dressRequest()
	req.CategoryID = 99

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Zero(t, pub.count(events.TopicCatalog))
}

func TestProductCreate_InvalidDiscount(t *testing.T) {
	svc, _, _ := newProductFixture()
	req := dressRequest()
	req.DiscountActive = true
	req.DiscountType = model.DiscountPercentage
	req.DiscountValue = decimal.NewFromInt(120)

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, catalog.ErrDiscountPercent)
}

func TestProductCreate_ColorNameUnusableInLineID(t *testing.T) {
	svc, repo, _ := newProductFixture()
	req := dressRequest()
	req.Colors = []dto.ColorInput{{Name: "Azul/Branco"}}

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, catalog.ErrColorChars)
	assert.Empty(t, repo.order)
}

func TestProductCreate_DuplicateColor(t *testing.T) {
	svc, _, _ := newProductFixture()
	req := dressRequest()
	req.Colors = []dto.ColorInput{{Name: "Preto"}, {Name: "Preto"}}

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, catalog.ErrDuplicateColor)
}

func TestProductUpdate_UnchangedPastExpiryIsAccepted(t *testing.T) {
	svc, _, _ := newProductFixture()
	past := time.Now().Add(-48 * time.Hour)

	req := dressRequest()
	req.DiscountActive = true
	req.DiscountType = model.DiscountFixed
	req.DiscountValue = decimal.NewFromInt(20)
	req.DiscountExpiresAt = &past

	svc.now = func() time.Time { return past.Add(-time.Hour) }
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	svc.now = time.Now
	req.Name = "Vestido Midi Longo"
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), req)
	require.NoError(t, err)
	assert.Equal(t, "Vestido Midi Longo", updated.Name)

	moved := past.Add(time.Hour)
	req.DiscountExpiresAt = &moved
	_, err = svc.Update(context.Background(), uuid.MustParse(created.ID), req)
	assert.ErrorIs(t, err, catalog.ErrDiscountExpiry)
}

func TestProductSetVisible_NotFound(t *testing.T) {
	svc, _, _ := newProductFixture()
	err := svc.SetVisible(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductDelete(t *testing.T) {
	svc, _, pub := newProductFixture()
	created, err := svc.Create(context.Background(), dressRequest())
	require.NoError(t, err)

	id := uuid.MustParse(created.ID)
	require.NoError(t, svc.Delete(context.Background(), id))
	_, err = svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 2, pub.count(events.TopicCatalog))
}
