package handler

import (
	"net/http"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BannersHandler struct{ svc service.BannerService }

func NewBannersHandler(svc service.BannerService) *BannersHandler {
	return &BannersHandler{svc: svc}
}

func (h *BannersHandler) Create(c *gin.Context) {
	var req dto.SaveBannerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Erro ao criar banner")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BannersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao listar banners")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BannersHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SaveBannerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Erro ao atualizar banner")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BannersHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Erro ao excluir banner")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BannersHandler) Reorder(c *gin.Context) {
	var req dto.ReorderBannersRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		ids = append(ids, uuid.MustParse(raw)) // validated by the uuid tag
	}
	if err := h.svc.Reorder(c.Request.Context(), ids); err != nil {
		respondError(c, err, "Erro ao reordenar banners")
		return
	}
	c.Status(http.StatusNoContent)
}
