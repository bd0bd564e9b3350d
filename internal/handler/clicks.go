package handler

import (
	"net/http"
	"strconv"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"
	"github.com/DaviAleixo/pollyana3-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type ClicksHandler struct {
	svc service.ClickService
	rdb *redis.Client
}

func NewClicksHandler(svc service.ClickService, rdb *redis.Client) *ClicksHandler {
	return &ClicksHandler{svc: svc, rdb: rdb}
}

// Track always answers 202: clicks are counted asynchronously.
func (h *ClicksHandler) Track(c *gin.Context) {
	var req dto.TrackClickRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.svc.Track(c.Request.Context(), req.TargetType, req.TargetID)
	c.Status(http.StatusAccepted)
}

func (h *ClicksHandler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	resp, err := h.svc.Top(c.Request.Context(), c.Query("type"), limit)
	if err != nil {
		respondError(c, err, "Erro ao listar cliques")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeadLetters shows the newest failed click jobs.
func (h *ClicksHandler) DeadLetters(c *gin.Context) {
	n, err := strconv.ParseInt(c.DefaultQuery("n", "20"), 10, 64)
	if err != nil || n <= 0 || n > 200 {
		n = 20
	}
	entries, err := worker.DLQPeek(c.Request.Context(), h.rdb, worker.QueueClicks, n)
	if err != nil {
		respondError(c, err, "Erro ao ler fila de falhas")
		return
	}
	c.JSON(http.StatusOK, entries)
}
