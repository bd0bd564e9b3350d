package service

import (
	"context"
	"errors"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/infra"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddressLookup resolves a postal code to an address.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*infra.CEPAddress, error)
}

// ShippingService prices delivery by destination city.
type ShippingService interface {
	Config(ctx context.Context) (*dto.ShippingConfigResponse, error)
	UpdateConfig(ctx context.Context, req dto.ShippingConfigRequest) (*dto.ShippingConfigResponse, error)
	Quote(ctx context.Context, city string, subtotal decimal.Decimal) dto.ShippingQuote
	LookupCEP(ctx context.Context, cep string) (*dto.AddressLookupResponse, error)
}

type shippingService struct {
	repo   repository.ShippingRepository
	lookup AddressLookup
}

func NewShippingService(repo repository.ShippingRepository, lookup AddressLookup) ShippingService {
	return &shippingService{repo: repo, lookup: lookup}
}

func (s *shippingService) Config(ctx context.Context) (*dto.ShippingConfigResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg, err = &model.ShippingConfig{ID: model.ShippingConfigID}, nil
	}
	if err != nil {
		return nil, err
	}
	resp := mapShippingConfig(cfg)
	return &resp, nil
}

func (s *shippingService) UpdateConfig(ctx context.Context, req dto.ShippingConfigRequest) (*dto.ShippingConfigResponse, error) {
	cfg := &model.ShippingConfig{
		ID:                    model.ShippingConfigID,
		OriginCity:            strings.TrimSpace(req.OriginCity),
		LocalFee:              req.LocalFee,
		DefaultFee:            req.DefaultFee,
		FreeShippingThreshold: req.FreeShippingThreshold,
		DeliveryNote:          req.DeliveryNote,
	}
	seen := make(map[string]bool, len(req.Tiers))
	for _, t := range req.Tiers {
		key := catalog.Fold(t.City)
		if seen[key] {
			continue // first tier for a city wins
		}
		seen[key] = true
		cfg.Tiers = append(cfg.Tiers, model.ShippingTier{
			City:          strings.TrimSpace(t.City),
			Fee:           t.Fee,
			EstimatedDays: t.EstimatedDays,
		})
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	resp := mapShippingConfig(cfg)
	return &resp, nil
}

// Quote picks, in order: free shipping above the threshold, the tier whose
// city matches after case and accent folding, the local fee for the origin
// city, the default fee. Without any of those the fee is agreed over chat
// (Fee nil). A store failure degrades to that last answer.
func (s *shippingService) Quote(ctx context.Context, city string, subtotal decimal.Decimal) dto.ShippingQuote {
	q := dto.ShippingQuote{City: strings.TrimSpace(city), Label: "Frete a combinar"}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Str("entity", "shipping_config").Str("op", "get").Msg("store read failed, quoting fee to be agreed")
		return q
	}

	if cfg.FreeShippingThreshold != nil && cfg.FreeShippingThreshold.IsPositive() &&
		subtotal.GreaterThanOrEqual(*cfg.FreeShippingThreshold) {
		zero := decimal.Zero
		q.Fee, q.Free, q.Label = &zero, true, "Frete grátis"
		return q
	}
	if q.City == "" {
		return q
	}
	for _, t := range cfg.Tiers {
		if catalog.SameCity(t.City, q.City) {
			fee := t.Fee
			q.Fee, q.EstimatedDays = &fee, t.EstimatedDays
			q.Label = "Entrega para " + t.City
			q.Free = fee.IsZero()
			return q
		}
	}
	if cfg.OriginCity != "" && catalog.SameCity(cfg.OriginCity, q.City) {
		fee := cfg.LocalFee
		q.Fee, q.Label, q.Free = &fee, "Entrega local", fee.IsZero()
		return q
	}
	if cfg.DefaultFee != nil {
		fee := *cfg.DefaultFee
		q.Fee, q.Label, q.Free = &fee, "Frete padrão", fee.IsZero()
	}
	return q
}

func (s *shippingService) LookupCEP(ctx context.Context, cep string) (*dto.AddressLookupResponse, error) {
	addr, err := s.lookup.Lookup(ctx, cep)
	if err != nil {
		return nil, err
	}
	return &dto.AddressLookupResponse{
		CEP:      addr.CEP,
		Street:   addr.Street,
		District: addr.District,
		City:     addr.City,
		State:    addr.State,
	}, nil
}
