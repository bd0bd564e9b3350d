package service

import (
	"context"
	"testing"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/infra"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	addr *infra.CEPAddress
	err  error
}

func (l stubLookup) Lookup(context.Context, string) (*infra.CEPAddress, error) { return l.addr, l.err }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func shippingFixture() *stubShippingRepo {
	return &stubShippingRepo{cfg: &model.ShippingConfig{
		ID:                    model.ShippingConfigID,
		OriginCity:            "Florianópolis",
		LocalFee:              decimal.NewFromInt(10),
		DefaultFee:            decPtr(35),
		FreeShippingThreshold: decPtr(300),
		Tiers: []model.ShippingTier{
			{City: "São José", Fee: decimal.NewFromInt(15), EstimatedDays: 1},
		},
	}}
}

func TestQuote_Order(t *testing.T) {
	svc := NewShippingService(shippingFixture(), stubLookup{})
	ctx := context.Background()

	free := svc.Quote(ctx, "Curitiba", decimal.NewFromInt(300))
	assert.True(t, free.Free)
	assert.True(t, free.Fee.IsZero())

	tier := svc.Quote(ctx, "  sao jose ", decimal.NewFromInt(100))
	require.NotNil(t, tier.Fee)
	assert.True(t, tier.Fee.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 1, tier.EstimatedDays)

	local := svc.Quote(ctx, "FLORIANOPOLIS", decimal.NewFromInt(100))
	require.NotNil(t, local.Fee)
	assert.True(t, local.Fee.Equal(decimal.NewFromInt(10)))

	other := svc.Quote(ctx, "Curitiba", decimal.NewFromInt(100))
	require.NotNil(t, other.Fee)
	assert.True(t, other.Fee.Equal(decimal.NewFromInt(35)))
}

func TestQuote_NoDefaultFee(t *testing.T) {
	repo := shippingFixture()
	repo.cfg.DefaultFee = nil
	q := NewShippingService(repo, stubLookup{}).Quote(context.Background(), "Curitiba", decimal.NewFromInt(10))
	assert.Nil(t, q.Fee)
	assert.False(t, q.Free)
	assert.Equal(t, "Frete a combinar", q.Label)
}

func TestQuote_StoreFailureDegrades(t *testing.T) {
	q := NewShippingService(&stubShippingRepo{fail: true}, stubLookup{}).Quote(context.Background(), "São José", decimal.NewFromInt(10))
	assert.Nil(t, q.Fee)
	assert.Equal(t, "Frete a combinar", q.Label)
}

func TestShippingConfig_EmptyBeforeFirstSave(t *testing.T) {
	resp, err := NewShippingService(&stubShippingRepo{}, stubLookup{}).Config(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Tiers)
}

func TestUpdateConfig_DeduplicatesTierCities(t *testing.T) {
	repo := &stubShippingRepo{}
	svc := NewShippingService(repo, stubLookup{})

	_, err := svc.UpdateConfig(context.Background(), dto.ShippingConfigRequest{
		OriginCity: " Joinville ",
		Tiers: []dto.ShippingTierRequest{
			{City: "Blumenau", Fee: decimal.NewFromInt(20)},
			{City: "blumenáu", Fee: decimal.NewFromInt(99)},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.cfg.Tiers, 1)
	assert.True(t, repo.cfg.Tiers[0].Fee.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "Joinville", repo.cfg.OriginCity)
}

func TestLookupCEP(t *testing.T) {
	svc := NewShippingService(&stubShippingRepo{}, stubLookup{addr: &infra.CEPAddress{CEP: "88010-000", City: "Florianópolis", State: "SC"}})
	resp, err := svc.LookupCEP(context.Background(), "88010000")
	require.NoError(t, err)
	assert.Equal(t, "Florianópolis", resp.City)

	_, err = NewShippingService(&stubShippingRepo{}, stubLookup{err: infra.ErrCEPNotFound}).LookupCEP(context.Background(), "00000000")
	assert.ErrorIs(t, err, infra.ErrCEPNotFound)
}
