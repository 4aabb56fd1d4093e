package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Tornike222/Loan-Api/internal/domain"
	"github.com/Tornike222/Loan-Api/internal/events"
	"github.com/Tornike222/Loan-Api/internal/repository"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

// ModerationService blocks and unblocks user accounts. Role enforcement for
// these operations lives in the transport gate; callers reaching this service
// are already authorized as accountants.
type ModerationService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewModerationService constructs the service.
func NewModerationService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{users: users, dispatcher: dispatcher, logger: logger}
}

// BlockUser marks the target account blocked. Blocking an already blocked
// account is a conflict and leaves the record untouched.
func (s *ModerationService) BlockUser(ctx context.Context, targetID, actorName, actorID string) (*domain.User, error) {
	user, err := s.lookup(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		s.logger.Warn("user already blocked", zap.String("user_id", targetID))
		return nil, apperrors.NewConflict("user is already blocked", map[string]any{"user_id": targetID})
	}

	user.IsBlocked = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit(ctx, events.EventUserBlocked, user, actorName, actorID)
	s.logger.Info("user blocked",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("actor_id", actorID),
		zap.String("actor_name", actorName),
	)
	return user, nil
}

// UnblockUser clears the blocked flag. Unblocking an account that is not
// blocked is a conflict.
func (s *ModerationService) UnblockUser(ctx context.Context, targetID, actorName, actorID string) (*domain.User, error) {
	user, err := s.lookup(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !user.IsBlocked {
		s.logger.Warn("user not blocked", zap.String("user_id", targetID))
		return nil, apperrors.NewConflict("user is not blocked", map[string]any{"user_id": targetID})
	}

	user.IsBlocked = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit(ctx, events.EventUserUnblocked, user, actorName, actorID)
	s.logger.Info("user unblocked",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("actor_id", actorID),
		zap.String("actor_name", actorName),
	)
	return user, nil
}

func (s *ModerationService) lookup(ctx context.Context, targetID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": targetID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *ModerationService) audit(ctx context.Context, eventType events.EventType, user *domain.User, actorName, actorID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TargetID:  user.ID,
		Actor:     events.Actor{UserID: actorID, Name: actorName, Role: domain.RoleAccountant},
		Timestamp: time.Now().UTC(),
		Payload:   events.AccountModerationPayload{Username: user.Username, Blocked: user.IsBlocked},
	})
}
