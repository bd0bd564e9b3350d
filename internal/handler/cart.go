package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/apierror"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const ssePing = 25 * time.Second

// CartHandler exposes carts keyed by a client generated uuid.
type CartHandler struct {
	svc service.CartService
	sub events.Subscriber
}

func NewCartHandler(svc service.CartService, sub events.Subscriber) *CartHandler {
	return &CartHandler{svc: svc, sub: sub}
}

func cartID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("carrinho inválido"))
		return "", false
	}
	return id.String(), true
}

func (h *CartHandler) Get(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Erro ao carregar carrinho")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary Adiciona item ao carrinho
// @Description A quantidade total da linha não pode passar do estoque da variação.
// @Tags carrinho
// @Accept json
// @Produce json
// @Param id path string true "Carrinho (uuid)"
// @Param body body dto.AddCartItemRequest true "Item"
// @Success 200 {object} dto.CartResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/carts/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Erro ao adicionar item")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateQuantity(c.Request.Context(), id, c.Param("itemId"), req.Quantity)
	if err != nil {
		respondError(c, err, "Erro ao atualizar item")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), id, c.Param("itemId"))
	if err != nil {
		respondError(c, err, "Erro ao remover item")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), id); err != nil {
		respondError(c, err, "Erro ao limpar carrinho")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Checkout(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Erro ao finalizar pedido")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Events streams the cart as server-sent events: the current state first,
// then again after every change to this cart only.
func (h *CartHandler) Events(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	changed := make(chan struct{}, 1)
	unsubscribe := h.sub.Subscribe(events.CartTopic(id), func(events.Event) {
		select {
		case changed <- struct{}{}:
		default: // a refresh is already queued
		}
	})
	defer unsubscribe()

	send := func() bool {
		resp, err := h.svc.Get(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("cart_id", id).Msg("cart stream: load failed")
			return false
		}
		c.SSEvent("cart", resp)
		return true
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	if !send() {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao carregar carrinho"))
		return
	}
	c.Writer.Flush()

	ping := time.NewTicker(ssePing)
	defer ping.Stop()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-changed:
			return send()
		case <-ping.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
