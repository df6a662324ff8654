package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	service "github.com/mamadbah2/farmstead/internal/service/whatsapp"
)

// ReminderSource builds the reminder text sent to the manager.
type ReminderSource interface {
	Reminders(ctx context.Context, now time.Time) (string, error)
}

// NotificationHandler exposes outbound WhatsApp messaging over HTTP.
type NotificationHandler struct {
	svc       service.MessagingService
	reminders ReminderSource
	logger    *zap.Logger
}

// NewNotificationHandler constructs the HTTP handler adapter.
func NewNotificationHandler(svc service.MessagingService, reminders ReminderSource, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{svc: svc, reminders: reminders, logger: logger}
}

// Register mounts the routes under group.
func (h *NotificationHandler) Register(group *gin.RouterGroup) {
	group.POST("/send", h.SendMessage)
	group.POST("/reminders", h.SendReminders)
}

// SendMessage allows sending manual messages.
func (h *NotificationHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		if statusFor(err) == http.StatusBadRequest {
			respondError(c, h.logger, err)
			return
		}
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}

// SendReminders pushes today's reminder list to the manager on demand.
func (h *NotificationHandler) SendReminders(c *gin.Context) {
	ctx := c.Request.Context()
	text, err := h.reminders.Reminders(ctx, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if text == "" {
		c.JSON(http.StatusOK, gin.H{"sent": false})
		return
	}
	if err := h.svc.NotifyManager(ctx, text); err != nil {
		h.logger.Error("failed sending reminders", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"sent": true, "text": text})
}
