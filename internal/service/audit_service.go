package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/events"
)

// AuditService records security-relevant authentication events. Log entries
// carry account identifiers and reasons only, never tokens or passwords.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handleTokenRefreshed)
}

func (a *AuditService) handleUserRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("subject_id", event.SubjectID))
	return nil
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded", zap.String("subject_id", event.SubjectID))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.LoginFailedPayload)
	a.logger.Warn("LoginFailed",
		zap.String("username", payload.Username),
		zap.String("reason", payload.Reason))
	return nil
}

func (a *AuditService) handleTokenRefreshed(_ context.Context, event events.Event) error {
	a.logger.Info("TokenRefreshed", zap.Any("payload", event.Payload))
	return nil
}
