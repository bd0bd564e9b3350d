package service

import (
	"context"
	"errors"

	"github.com/DaviAleixo/pollyana3-sub000/internal/cart"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CartService resolves products from the store and drives the cart engine.
type CartService interface {
	Get(ctx context.Context, cartID string) (*dto.CartResponse, error)
	AddItem(ctx context.Context, cartID string, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	UpdateQuantity(ctx context.Context, cartID, itemID string, qty int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (*dto.CartResponse, error)
	Clear(ctx context.Context, cartID string) error
	Checkout(ctx context.Context, cartID string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

// CheckoutSettings identify the store in the order message.
type CheckoutSettings struct {
	StoreName      string
	WhatsAppNumber string
}

type cartService struct {
	engine   *cart.Engine
	products repository.ProductRepository
	shipping ShippingService
	clicks   ClickService
	settings CheckoutSettings
}

func NewCartService(
	engine *cart.Engine,
	products repository.ProductRepository,
	shipping ShippingService,
	clicks ClickService,
	settings CheckoutSettings,
) CartService {
	return &cartService{engine: engine, products: products, shipping: shipping, clicks: clicks, settings: settings}
}

func (s *cartService) Get(ctx context.Context, cartID string) (*dto.CartResponse, error) {
	items, err := s.engine.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return mapCart(cartID, items), nil
}

func (s *cartService) AddItem(ctx context.Context, cartID string, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	items, err := s.engine.AddItem(ctx, cartID, p, req.Color, req.Size, req.Quantity)
	if err != nil {
		return nil, err
	}
	return mapCart(cartID, items), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, cartID, itemID string, qty int) (*dto.CartResponse, error) {
	items, err := s.engine.UpdateQuantity(ctx, cartID, itemID, qty)
	if err != nil {
		return nil, err
	}
	return mapCart(cartID, items), nil
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID string) (*dto.CartResponse, error) {
	items, err := s.engine.RemoveItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	return mapCart(cartID, items), nil
}

func (s *cartService) Clear(ctx context.Context, cartID string) error {
	return s.engine.Clear(ctx, cartID)
}

// Checkout builds the order message from the cart snapshots, prices the
// delivery, and empties the cart. Sending the message is up to the client,
// which opens the returned WhatsApp link.
func (s *cartService) Checkout(ctx context.Context, cartID string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.settings.WhatsAppNumber == "" {
		return nil, ErrWhatsAppMissing
	}
	items, err := s.engine.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals := cart.ComputeTotals(items)
	quote := s.shipping.Quote(ctx, req.City, totals.TotalPrice)
	ship := cart.ShippingOption{Label: quote.Label, Fee: quote.Fee, Free: quote.Free, EstimatedDays: quote.EstimatedDays}
	addr := cart.Address{
		Name:       req.Name,
		Phone:      req.Phone,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	}
	msg := cart.CheckoutMessage(s.settings.StoreName, items, addr, ship)

	s.clicks.Track(ctx, model.ClickWhatsApp, "checkout")
	if err := s.engine.Clear(ctx, cartID); err != nil {
		log.Warn().Err(err).Str("cart_id", cartID).Msg("checkout: cart not cleared")
	}

	return &dto.CheckoutResponse{
		Message:     msg,
		WhatsAppURL: cart.WhatsAppLink(s.settings.WhatsAppNumber, msg),
		Shipping:    quote,
		Subtotal:    totals.TotalPrice,
		Total:       ship.GrandTotal(totals.TotalPrice),
	}, nil
}

func mapCart(cartID string, items []cart.Item) *dto.CartResponse {
	totals := cart.ComputeTotals(items)
	resp := &dto.CartResponse{
		ID:           cartID,
		Items:        make([]dto.CartLineResponse, 0, len(items)),
		TotalItems:   totals.TotalItems,
		TotalPrice:   totals.TotalPrice,
		TotalSavings: totals.TotalSavings,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.CartLineResponse{
			ID:              it.ID,
			ProductID:       it.ProductID.String(),
			Name:            it.Name,
			ImageURL:        it.ImageURL,
			Color:           it.Color,
			Size:            it.Size,
			Quantity:        it.Quantity,
			MaxStock:        it.MaxStock,
			OriginalPrice:   it.OriginalPrice,
			DiscountedPrice: it.DiscountedPrice,
			LineTotal:       it.LineTotal(),
		})
	}
	return resp
}
