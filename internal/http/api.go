package http

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"sss-backend/internal/service"
)

// Handler exposes process health over HTTP.
type Handler struct {
	members service.MemberService
	ready   atomic.Bool
}

func NewHandler(members service.MemberService) *Handler {
	return &Handler{members: members}
}

// MarkReady flips /api/ready to healthy once startup runners have completed.
func (h *Handler) MarkReady() {
	h.ready.Store(true)
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.GET("/ready", h.readiness)
	}
}

type ReadyResponse struct {
	Ready   bool  `json:"ready"`
	Members int64 `json:"members"`
}

func (h *Handler) readiness(c *gin.Context) {
	if !h.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "startup in progress"})
		return
	}

	count, err := h.members.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{Ready: true, Members: count})
}
