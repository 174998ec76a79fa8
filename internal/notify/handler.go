package notify

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aspire/pkg/logging"
)

type Handler struct {
	notifier *Notifier
	contacts *ContactStore
	logger   logging.Logger
}

func NewHandler(notifier *Notifier, contacts *ContactStore, logger logging.Logger) *Handler {
	return &Handler{notifier: notifier, contacts: contacts, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/notifications", h.HandleNotification)
	router.POST("/contact", h.HandleContact)
}

func (h *Handler) HandleNotification(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	recipient, err := h.notifier.Send(c.Request.Context(), req)
	if err != nil {
		h.logger.WithFields(logging.Fields{
			"tenant_id": req.TenantID,
			"error":     err,
		}).Error("Failed to deliver request notification")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipientEmail": recipient})
}
