package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/fieldforce-crm/internal/config"
	"github.com/spec-kit/fieldforce-crm/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAdminRegistered, n.handleAdminRegistered)
	n.dispatcher.Subscribe(events.EventAdminVerified, n.handleAdminVerified)
	n.dispatcher.Subscribe(events.EventEmployeeCreated, n.handleEmployeeCreated)
	n.dispatcher.Subscribe(events.EventOrderCompleted, n.handleOrderCompleted)
	n.dispatcher.Subscribe(events.EventOTPRequested, n.handleOTPRequested)
	n.dispatcher.Subscribe(events.EventWFHDecided, n.handleWFHDecided)
}

func (n *NotificationService) handleAdminRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("AdminRegistered", zap.String("organization_id", event.OrganizationID), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAdminVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("AdminVerified", zap.String("organization_id", event.OrganizationID), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmployeeCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeCreated", zap.String("organization_id", event.OrganizationID), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOrderCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderCompleted", zap.String("organization_id", event.OrganizationID), zap.Any("payload", event.Payload))
	return nil
}

// handleOTPRequested delivers the reset code by email. The OTP itself is
// never logged.
func (n *NotificationService) handleOTPRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OTPRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("OTPRequested", zap.String("email", payload.Email))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWFHDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("WFHDecided", zap.String("organization_id", event.OrganizationID), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("smtp_server", n.cfg.SMTPServer),
		zap.String("event_type", string(event.Type)))
}
