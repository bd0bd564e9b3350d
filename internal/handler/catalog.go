package handler

import (
	"net/http"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public storefront. Reads never fail on store
// errors; they come back empty.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Browse godoc
// @Summary Lista produtos da vitrine
// @Tags catalogo
// @Produce json
// @Param category query string false "ID, slug ou promocoes"
// @Param q query string false "Busca"
// @Param sort query string false "default | price_asc | price_desc | alpha_asc"
// @Success 200 {array} dto.ProductCard
// @Router /v1/products [get]
func (h *CatalogHandler) Browse(c *gin.Context) {
	var q dto.CatalogQuery
	if !bindQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Browse(c.Request.Context(), q))
}

func (h *CatalogHandler) Product(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Erro ao buscar produto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) NewArrivals(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.NewArrivals(c.Request.Context()))
}

func (h *CatalogHandler) Banners(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Banners(c.Request.Context()))
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CategoryTree(c.Request.Context()))
}
