package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Tornike222/Loan-Api/internal/auth"
	"github.com/Tornike222/Loan-Api/internal/config"
	"github.com/Tornike222/Loan-Api/internal/domain"
	"github.com/Tornike222/Loan-Api/internal/events"
	"github.com/Tornike222/Loan-Api/internal/repository"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName     string
	LastName      string
	Username      string
	Email         string
	Age           int
	MonthlyIncome decimal.Decimal
	Password      string
	Role          string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new account. Username and email must be unique; the
// role token defaults to REGULAR when absent or unparseable.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": input.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already taken", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	role := domain.RoleRegular
	if parsed, ok := domain.ParseUserRole(input.Role); ok {
		role = parsed
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Username:      input.Username,
		Email:         input.Email,
		Age:           input.Age,
		MonthlyIncome: input.MonthlyIncome,
		PasswordHash:  hash,
		Role:          role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			TargetID:  user.ID,
			Actor:     events.Actor{UserID: user.ID, Name: user.Username, Role: user.Role},
			Timestamp: time.Now().UTC(),
			Payload:   events.UserRegisteredPayload{Username: user.Username, Role: user.Role},
		})
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates by username and returns a role-bearing token. Unknown
// users and bad passwords get the same generic response.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Warn("invalid password", zap.String("username", username))
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("login success", zap.String("user_id", user.ID), zap.String("username", username))
	return user, token, exp, nil
}

// GetUserByID returns account details for the caller's own account, or any
// account when the caller is an accountant.
func (s *AuthService) GetUserByID(ctx context.Context, id, requesterID string, requesterRole domain.UserRole) (*domain.User, error) {
	if requesterRole != domain.RoleAccountant && requesterID != id {
		return nil, apperrors.NewForbidden("you can only access your own data")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
