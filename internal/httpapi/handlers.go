package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/infohub-br/promoagent/internal/agent"
	"github.com/infohub-br/promoagent/internal/model"
	"github.com/infohub-br/promoagent/internal/provider"
)

// ChatAgent processes chat requests. Satisfied by *agent.Agent.
type ChatAgent interface {
	Process(ctx context.Context, req model.ChatRequest) (model.ChatResponse, error)
	Stats() agent.StatsSnapshot
}

// ProviderStatusSource reports provider chain health. Satisfied by
// *provider.Manager.
type ProviderStatusSource interface {
	Status() []provider.ProviderStatus
}

// Handlers carries the dependencies of every route.
type Handlers struct {
	agent     ChatAgent
	providers ProviderStatusSource
	logger    *slog.Logger
}

// NewHandlers wires route dependencies. The provider source may be nil when
// running rules-only.
func NewHandlers(chatAgent ChatAgent, providers ProviderStatusSource, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{agent: chatAgent, providers: providers, logger: logger}
}

// Chat handles POST /v1/chat.
func (h *Handlers) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	resp, err := h.agent.Process(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("chat request failed", "error", err, "session_id", req.SessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": req.SessionID,
		"response":   resp,
	})
}

// Providers handles GET /v1/providers.
func (h *Handlers) Providers(c *gin.Context) {
	if h.providers == nil {
		c.JSON(http.StatusOK, gin.H{"providers": []provider.ProviderStatus{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": h.providers.Status()})
}

// Stats handles GET /v1/stats.
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.agent.Stats())
}

// Health handles GET /healthz.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
