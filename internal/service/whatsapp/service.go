package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/config"
	"github.com/mamadbah2/farmstead/internal/domain/models"
	client "github.com/mamadbah2/farmstead/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrNoRecipient is returned when a message has nowhere to go.
var ErrNoRecipient = errors.New("no recipient")

// MessagingService describes the notification operations used by the HTTP
// layer and the scheduler.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	NotifyManager(ctx context.Context, text string) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	managerID string
	client    client.Client
	logger    *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, c client.Client, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{managerID: cfg.ManagerID, client: c, logger: logger}
}

// SendOutbound lets operators push a message to any number.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	to := strings.TrimSpace(req.To)
	if to == "" {
		return ErrNoRecipient
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	res, err := s.client.SendText(ctx, client.TextMessage{
		To:         to,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	s.logger.Info("whatsapp message sent", zap.String("to", to), zap.Strings("ids", res.MessageIDs))
	return nil
}

// NotifyManager sends text to the configured farm manager. Empty text is skipped.
func (s *MetaWhatsAppService) NotifyManager(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.SendOutbound(ctx, models.OutboundMessageRequest{To: s.managerID, Message: text})
}

// LogService stands in when WhatsApp is not configured: messages are logged, not sent.
type LogService struct {
	logger *zap.Logger
}

func NewLogService(logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{logger: logger}
}

func (s *LogService) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	if strings.TrimSpace(req.To) == "" {
		return ErrNoRecipient
	}
	s.logger.Info("whatsapp disabled, message logged", zap.String("to", req.To), zap.String("message", req.Message))
	return nil
}

func (s *LogService) NotifyManager(_ context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	s.logger.Info("whatsapp disabled, manager notification logged", zap.String("message", text))
	return nil
}

// New picks the Cloud API implementation when credentials are configured.
func New(cfg config.WhatsAppConfig, logger *zap.Logger) MessagingService {
	if !cfg.Enabled() {
		return NewLogService(logger)
	}
	return NewMetaWhatsAppService(cfg, client.NewClient(cfg), logger)
}
