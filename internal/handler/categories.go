package handler

import (
	"net/http"
	"strconv"

	"github.com/DaviAleixo/pollyana3-sub000/internal/apierror"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func categoryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return 0, false
	}
	return uint(id), true
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Erro ao criar categoria")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoriesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao listar categorias")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) Tree(c *gin.Context) {
	resp, err := h.svc.Tree(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao listar categorias")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := categoryID(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Erro ao atualizar categoria")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Remove categoria
// @Description Subcategorias sobem para o pai e os produtos vão para "Todos".
// @Tags categorias
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/admin/categories/{id} [delete]
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := categoryID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Erro ao excluir categoria")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoriesHandler) Reorder(c *gin.Context) {
	var req dto.ReorderCategoriesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), req); err != nil {
		respondError(c, err, "Erro ao reordenar categorias")
		return
	}
	c.Status(http.StatusNoContent)
}
