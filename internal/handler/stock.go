package handler

import (
	"net/http"
	"strconv"

	"github.com/DaviAleixo/pollyana3-sub000/internal/apierror"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/middleware"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler serves the stock screen. Pending edits belong to the login
// session that made them, identified by the token id.
type StockHandler struct {
	svc       service.StockService
	threshold int
}

func NewStockHandler(svc service.StockService, lowStockThreshold int) *StockHandler {
	return &StockHandler{svc: svc, threshold: lowStockThreshold}
}

func session(c *gin.Context) (string, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.ID == "" {
		c.JSON(http.StatusUnauthorized, apierror.New("sessão inválida"))
		return "", false
	}
	return claims.ID, true
}

// Adjust godoc
// @Summary Ajusta o estoque imediatamente
// @Tags estoque
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Produto"
// @Param body body dto.AdjustStockRequest true "Ajuste"
// @Success 200 {object} dto.StockView
// @Failure 409 {object} apierror.APIError
// @Router /v1/admin/stock/{id}/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var (
		resp *dto.StockView
		err  error
	)
	if req.VariantID != "" {
		resp, err = h.svc.AdjustVariant(c.Request.Context(), id, req.VariantID, req.Delta, req.Note)
	} else {
		resp, err = h.svc.AdjustProduct(c.Request.Context(), id, req.Delta, req.Note)
	}
	if err != nil {
		respondError(c, err, "Erro ao ajustar estoque")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Stage(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req dto.StageStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Stage(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err, "Erro ao registrar alterações")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Pending(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Pending(sess))
}

func (h *StockHandler) Preview(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	resp, err := h.svc.Preview(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "Erro ao carregar estoque")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Discard drops the whole batch, or only one product's edits when
// product_id is given.
func (h *StockHandler) Discard(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
			return
		}
		h.svc.DiscardProduct(sess, id)
	} else {
		h.svc.Discard(sess)
	}
	c.Status(http.StatusNoContent)
}

// Commit godoc
// @Summary Grava todas as alterações pendentes da sessão em uma única transação
// @Tags estoque
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CommitStockRequest false "Observação"
// @Success 200 {object} dto.CommitStockResponse
// @Router /v1/admin/stock/commit [post]
func (h *StockHandler) Commit(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req dto.CommitStockRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Commit(c.Request.Context(), sess, req.Note)
	if err != nil {
		respondError(c, err, "Erro ao gravar estoque; alterações mantidas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Erro ao listar movimentações")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) LowStock(c *gin.Context) {
	threshold := h.threshold
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("threshold inválido"))
			return
		}
		threshold = n
	}
	resp, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err, "Erro ao listar estoque baixo")
		return
	}
	c.JSON(http.StatusOK, resp)
}
