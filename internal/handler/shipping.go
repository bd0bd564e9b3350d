package handler

import (
	"net/http"

	"github.com/DaviAleixo/pollyana3-sub000/internal/apierror"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ShippingHandler struct{ svc service.ShippingService }

func NewShippingHandler(svc service.ShippingService) *ShippingHandler {
	return &ShippingHandler{svc: svc}
}

func (h *ShippingHandler) Config(c *gin.Context) {
	resp, err := h.svc.Config(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao carregar frete")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShippingHandler) UpdateConfig(c *gin.Context) {
	var req dto.ShippingConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateConfig(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Erro ao salvar frete")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quote godoc
// @Summary Calcula o frete
// @Description Usa a cidade informada ou, sem cidade, a do CEP.
// @Tags frete
// @Produce json
// @Param city query string false "Cidade"
// @Param cep query string false "CEP"
// @Param subtotal query string false "Subtotal do carrinho"
// @Success 200 {object} dto.ShippingQuote
// @Router /v1/shipping/quote [get]
func (h *ShippingHandler) Quote(c *gin.Context) {
	var q dto.QuoteQuery
	if !bindQuery(c, &q) {
		return
	}
	subtotal := decimal.Zero
	if q.Subtotal != "" {
		d, err := decimal.NewFromString(q.Subtotal)
		if err != nil || d.IsNegative() {
			c.JSON(http.StatusBadRequest, apierror.New("subtotal inválido"))
			return
		}
		subtotal = d
	}

	city := q.City
	if city == "" && q.CEP != "" {
		addr, err := h.svc.LookupCEP(c.Request.Context(), q.CEP)
		if err != nil {
			respondError(c, err, "Erro ao consultar CEP")
			return
		}
		city = addr.City
	}
	c.JSON(http.StatusOK, h.svc.Quote(c.Request.Context(), city, subtotal))
}

func (h *ShippingHandler) LookupCEP(c *gin.Context) {
	resp, err := h.svc.LookupCEP(c.Request.Context(), c.Param("cep"))
	if err != nil {
		respondError(c, err, "Erro ao consultar CEP")
		return
	}
	c.JSON(http.StatusOK, resp)
}
