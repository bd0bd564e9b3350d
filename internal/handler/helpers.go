package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/DaviAleixo/pollyana3-sub000/internal/apierror"
	"github.com/DaviAleixo/pollyana3-sub000/internal/cart"
	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/infra"
	"github.com/DaviAleixo/pollyana3-sub000/internal/middleware"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parâmetros inválidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.FromValidator(err))
		return false
	}
	return true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// ── Error mapping ────────────────────────────────────────────────────────────

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},

	{service.ErrProductNotFound, http.StatusNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound},
	{service.ErrBannerNotFound, http.StatusNotFound},
	{cart.ErrItemNotFound, http.StatusNotFound},
	{infra.ErrCEPNotFound, http.StatusNotFound},

	{cart.ErrStockExceeded, http.StatusConflict},
	{infra.ErrLockBusy, http.StatusConflict},

	{service.ErrWhatsAppMissing, http.StatusServiceUnavailable},
	{infra.ErrCircuitOpen, http.StatusServiceUnavailable},

	{service.ErrParentNotFound, http.StatusBadRequest},
	{service.ErrRootCategoryHidden, http.StatusBadRequest},
	{service.ErrBannerLink, http.StatusBadRequest},
	{service.ErrEmptyCart, http.StatusBadRequest},
	{service.ErrVariantRequired, http.StatusBadRequest},
	{service.ErrVariantUnexpected, http.StatusBadRequest},
	{service.ErrStockChange, http.StatusBadRequest},
	{catalog.ErrRootCategory, http.StatusBadRequest},
	{catalog.ErrCategoryCycle, http.StatusBadRequest},
	{catalog.ErrDiscountType, http.StatusBadRequest},
	{catalog.ErrDiscountValue, http.StatusBadRequest},
	{catalog.ErrDiscountPercent, http.StatusBadRequest},
	{catalog.ErrDiscountExpiry, http.StatusBadRequest},
	{catalog.ErrLaunchExpiry, http.StatusBadRequest},
	{catalog.ErrColorName, http.StatusBadRequest},
	{catalog.ErrDuplicateColor, http.StatusBadRequest},
	{catalog.ErrColorChars, http.StatusBadRequest},
	{catalog.ErrSizeScheme, http.StatusBadRequest},
	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{cart.ErrVariantNotFound, http.StatusBadRequest},
	{cart.ErrProductUnavailable, http.StatusBadRequest},
	{infra.ErrCEPInvalid, http.StatusBadRequest},
}

// respondError writes the status that matches a known domain error. Anything
// else is logged and answered with a generic 500 so store errors never leak.
func respondError(c *gin.Context, err error, fallback string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, apierror.New(e.err.Error()))
			return
		}
	}
	log.Error().Err(err).
		Str("path", c.FullPath()).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Msg(fallback)
	c.JSON(http.StatusInternalServerError, apierror.New(fallback))
}
