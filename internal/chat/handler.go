package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"aspire/internal/assistant"
	"aspire/internal/knowledge"
	"aspire/pkg/logging"
)

type ChatRequest struct {
	AssistantID string `json:"assistantId"`
	TenantID    string `json:"tenantId,omitempty"`
	Input       string `json:"input"`
	SessionID   string `json:"sessionId,omitempty"`
}

type OutputItem struct {
	Content string `json:"content"`
	Text    string `json:"text"`
}

type KBInfo struct {
	TenantID          string            `json:"tenantId"`
	Used              bool              `json:"used"`
	MatchCount        int               `json:"matchCount"`
	MemorySummaryUsed bool              `json:"memorySummaryUsed"`
	Matches           []knowledge.Match `json:"matches"`
}

type ChatResponse struct {
	ID        string       `json:"id"`
	Output    []OutputItem `json:"output"`
	SessionID string       `json:"sessionId"`
	KB        KBInfo       `json:"kb"`
}

// KnowledgeRetriever is the retrieval surface the handler depends on.
// *knowledge.Retriever satisfies it.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, tenantID, query string, matchCount int) ([]knowledge.Match, string, error)
}

// Summarizer produces the next rolling summary after a turn. Wired to
// UpdateRollingSummary in production; swapped out in tests.
type Summarizer func(ctx context.Context, previous, userMessage, assistantMessage string) (string, error)

type HandlerConfig struct {
	HistoryLimit    int
	KBEnabled       bool
	SummaryMaxChars int
}

type ChatHandler struct {
	resolver     *assistant.Resolver
	registry     *assistant.Registry
	retriever    KnowledgeRetriever
	memory       *Memory
	orchestrator *Orchestrator
	summarize    Summarizer
	logger       logging.Logger
	config       HandlerConfig
}

func NewChatHandler(
	resolver *assistant.Resolver,
	registry *assistant.Registry,
	retriever KnowledgeRetriever,
	memory *Memory,
	orchestrator *Orchestrator,
	summarize Summarizer,
	logger logging.Logger,
	config HandlerConfig,
) *ChatHandler {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 12
	}
	if config.SummaryMaxChars <= 0 {
		config.SummaryMaxChars = DefaultSummaryMaxChars
	}
	return &ChatHandler{
		resolver:     resolver,
		registry:     registry,
		retriever:    retriever,
		memory:       memory,
		orchestrator: orchestrator,
		summarize:    summarize,
		logger:       logger,
		config:       config,
	}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.HandleChat)
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrMissingInput.Error()})
		return
	}

	tenantID, ok := h.resolver.Resolve(req.TenantID, req.AssistantID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrMissingTenant.Error()})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = newSessionID()
	}

	cfg := h.registry.Load(tenantID)
	logger := h.logger.WithFields(logging.Fields{
		"tenant_id":  tenantID,
		"session_id": sessionID,
	})

	var (
		history   []StoredMessage
		summary   string
		matches   []knowledge.Match
		kbContext string
	)

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		history = h.memory.History(gctx, tenantID, sessionID, h.config.HistoryLimit)
		summary = h.memory.Summary(gctx, tenantID, sessionID)
		return nil
	})
	if h.config.KBEnabled && cfg.KBEnabled && h.retriever != nil {
		g.Go(func() error {
			var err error
			matches, kbContext, err = h.retriever.Retrieve(gctx, tenantID, req.Input, cfg.KBMatchCount)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.respondUpstream(c, logger, sessionID, err)
		return
	}

	result, err := h.orchestrator.Respond(c.Request.Context(), TurnRequest{
		TenantID:    tenantID,
		SessionID:   sessionID,
		Config:      cfg,
		History:     history,
		Summary:     summary,
		KBContext:   kbContext,
		UserMessage: req.Input,
	})
	if err != nil {
		h.respondUpstream(c, logger, sessionID, err)
		return
	}

	if matches == nil {
		matches = []knowledge.Match{}
	}
	c.JSON(http.StatusOK, ChatResponse{
		ID:        sessionID,
		Output:    []OutputItem{{Content: result.Content, Text: result.Content}},
		SessionID: sessionID,
		KB: KBInfo{
			TenantID:          tenantID,
			Used:              len(matches) > 0,
			MatchCount:        len(matches),
			MemorySummaryUsed: summary != "",
			Matches:           matches,
		},
	})

	h.memory.RecordMessage(c.Request.Context(), tenantID, sessionID, "user", req.Input)
	h.memory.RecordMessage(c.Request.Context(), tenantID, sessionID, "assistant", result.Content)

	if h.summarize != nil {
		// Detached from the request so a client disconnect does not cancel
		// the summary update.
		go h.updateSummary(context.WithoutCancel(c.Request.Context()), logger, tenantID, sessionID, summary, req.Input, result.Content)
	}
}

func (h *ChatHandler) updateSummary(ctx context.Context, logger *logrus.Entry, tenantID, sessionID, previous, userMessage, assistantMessage string) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	next, err := h.summarize(ctx, previous, userMessage, assistantMessage)
	if err != nil {
		logger.WithFields(logging.Fields{"error": err}).Warn("Rolling summary update failed")
		return
	}
	h.memory.SaveSummary(ctx, tenantID, sessionID, next)
}

func (h *ChatHandler) respondUpstream(c *gin.Context, logger *logrus.Entry, sessionID string, err error) {
	status := http.StatusBadGateway
	message := err.Error()

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		message = upErr.Message
		if upErr.Status >= http.StatusBadRequest {
			status = upErr.Status
		}
		logger.WithFields(logging.Fields{
			"phase":  upErr.Phase,
			"status": upErr.Status,
			"error":  upErr.Message,
		}).Error("Upstream call failed")
	} else {
		logger.WithFields(logging.Fields{"error": err}).Error("Chat turn failed")
	}

	c.JSON(status, gin.H{
		"error":     message,
		"sessionId": sessionID,
	})
}

func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), suffix)
}
