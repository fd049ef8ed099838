package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/config"
	"github.com/mamadbah2/montwater/internal/domain/models"
	client "github.com/mamadbah2/montwater/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrNoRecipient is returned when a message has no destination number.
var ErrNoRecipient = errors.New("whatsapp recipient is not configured")

// MessagingService delivers text notifications to the shop owner.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	SendAlert(ctx context.Context, message string) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendAlert sends message to the configured alert recipient.
func (s *MetaWhatsAppService) SendAlert(ctx context.Context, message string) error {
	return s.SendOutbound(ctx, models.OutboundMessageRequest{
		To:      s.cfg.AlertRecipient,
		Message: message,
	})
}

// SendOutbound pushes a single text message.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	to := strings.TrimSpace(req.To)
	if to == "" {
		return ErrNoRecipient
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.New("whatsapp message must not be empty")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}

	messageID := ""
	if resp != nil && len(resp.Messages) > 0 {
		messageID = resp.Messages[0].ID
	}
	s.logger.Info("whatsapp message sent", zap.String("to", to), zap.String("message_id", messageID))
	return nil
}
