package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/edu-platform/internal/events"
)

// AuditService logs structured records for domain events. Events are not
// persisted; the log stream is the only sink.
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
	a.dispatcher.Subscribe(events.EventRoleAssigned, a.handleRoleAssigned)
	a.dispatcher.Subscribe(events.EventSchoolCreated, a.handleSchoolCreated)
}

func (a *AuditService) handleUserRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.Int64("user_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRoleAssigned(_ context.Context, event events.Event) error {
	a.logger.Info("RoleAssigned", zap.Int64("user_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleSchoolCreated(_ context.Context, event events.Event) error {
	a.logger.Info("SchoolCreated", zap.Int64("school_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}
