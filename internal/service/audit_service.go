package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Tornike222/Loan-Api/internal/events"
)

// AuditService records domain events as structured log entries: operation,
// actor, target, outcome.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to every event type the services emit.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventLoanCreated,
		events.EventLoanUpdated,
		events.EventLoanDeleted,
		events.EventLoanStatusChanged,
		events.EventUserBlocked,
		events.EventUserUnblocked,
		events.EventUserRegistered,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("target_id", event.TargetID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
