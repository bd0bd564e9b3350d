package handler

import (
	"net/http"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login do administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Erro ao autenticar")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Session godoc
// @Summary Verifica se o token enviado ainda é uma sessão válida
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	c.JSON(http.StatusOK, h.svc.Session(c.Request.Context(), token))
}
