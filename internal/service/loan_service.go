package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Tornike222/Loan-Api/internal/cache"
	"github.com/Tornike222/Loan-Api/internal/domain"
	"github.com/Tornike222/Loan-Api/internal/events"
	"github.com/Tornike222/Loan-Api/internal/policy"
	"github.com/Tornike222/Loan-Api/internal/repository"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

// LoanService coordinates the loan lifecycle: creation, owner edits while
// processing, and accountant decisions in any status.
type LoanService struct {
	users      repository.UserRepository
	loans      repository.LoanRepository
	loanCache  *cache.LoanCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// LoanDependencies bundles collaborators for the loan service.
type LoanDependencies struct {
	UserRepo   repository.UserRepository
	LoanRepo   repository.LoanRepository
	LoanCache  *cache.LoanCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// LoanInput carries the owner-editable loan fields. Type and Currency arrive
// as raw tokens and are validated here against the closed sets.
type LoanInput struct {
	Type         string
	Amount       decimal.Decimal
	Currency     string
	PeriodMonths int
}

// NewLoanService constructs the service.
func NewLoanService(deps LoanDependencies) *LoanService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanService{
		users:      deps.UserRepo,
		loans:      deps.LoanRepo,
		loanCache:  deps.LoanCache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateLoan opens a new loan request for the owner. New loans always start
// in PROCESSING.
func (s *LoanService) CreateLoan(ctx context.Context, ownerID string, input LoanInput) (*domain.Loan, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": ownerID})
		}
		return nil, apperrors.MapError(err)
	}

	if !policy.CanCreateLoan(owner.IsBlocked) {
		s.logger.Warn("blocked user attempted loan creation", zap.String("user_id", ownerID))
		return nil, apperrors.NewForbidden("blocked users cannot create loans")
	}

	loanType, currency, err := parseLoanFields(input)
	if err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		OwnerID:      ownerID,
		Type:         loanType,
		Amount:       input.Amount,
		Currency:     currency,
		PeriodMonths: input.PeriodMonths,
		Status:       domain.LoanStatusProcessing,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.invalidateOwner(ctx, ownerID)
	s.publish(ctx, events.Event{
		Type:     events.EventLoanCreated,
		TargetID: loan.ID,
		Actor:    events.Actor{UserID: ownerID, Role: owner.Role},
		Payload: events.LoanCreatedPayload{
			OwnerID:      loan.OwnerID,
			Type:         loan.Type,
			Amount:       loan.Amount.String(),
			Currency:     loan.Currency,
			PeriodMonths: loan.PeriodMonths,
		},
	})
	s.logger.Info("loan created", zap.String("loan_id", loan.ID), zap.String("owner_id", ownerID))
	return loan, nil
}

// UpdateLoanStatus moves a loan to a new status. Accountants may set any
// status from any status, including re-opening a decided loan.
func (s *LoanService) UpdateLoanStatus(ctx context.Context, loanID string, requester events.Actor, newStatus string) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("loan", map[string]any{"loan_id": loanID})
		}
		return nil, apperrors.MapError(err)
	}

	if !policy.CanChangeLoanStatus(requester.Role) {
		s.logger.Warn("unauthorized status update attempt", zap.String("role", string(requester.Role)))
		return nil, apperrors.NewForbidden("only accountants can update loan status")
	}

	status, ok := domain.ParseLoanStatus(newStatus)
	if !ok {
		return nil, apperrors.NewValidationError("invalid loan status", map[string]any{"status": newStatus})
	}

	oldStatus := loan.Status
	loan.Status = status
	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.invalidateOwner(ctx, loan.OwnerID)
	s.publish(ctx, events.Event{
		Type:     events.EventLoanStatusChanged,
		TargetID: loan.ID,
		Actor:    requester,
		Payload:  events.LoanStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	s.logger.Info("loan status updated",
		zap.String("loan_id", loan.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)
	return loan, nil
}

// GetOwnLoans returns every loan owned by the caller, any status. An empty
// list is a success.
func (s *LoanService) GetOwnLoans(ctx context.Context, ownerID string) ([]domain.Loan, error) {
	if cached, ok, err := s.loanCache.GetOwnerLoans(ctx, ownerID); err == nil && ok {
		return cached, nil
	}

	loans, err := s.loans.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.loanCache.SetOwnerLoans(ctx, ownerID, loans); err != nil {
		s.logger.Warn("failed to cache loan list", zap.String("owner_id", ownerID), zap.Error(err))
	}
	return loans, nil
}

// UpdateOwnLoan edits the editable fields of a loan the caller owns. The
// owner keeps that right only while the loan is still processing.
func (s *LoanService) UpdateOwnLoan(ctx context.Context, ownerID, loanID string, input LoanInput) (*domain.Loan, error) {
	loan, err := s.loans.GetByIDAndOwner(ctx, loanID, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("loan", map[string]any{"loan_id": loanID})
		}
		return nil, apperrors.MapError(err)
	}

	if !policy.CanMutateLoan(domain.RoleRegular, ownerID, loan) {
		s.logger.Warn("owner tried to update non-processing loan",
			zap.String("loan_id", loanID), zap.String("owner_id", ownerID))
		return nil, apperrors.NewConflict("only processing loans can be updated", map[string]any{"status": loan.Status})
	}

	if err := s.applyLoanFields(ctx, loan, input); err != nil {
		return nil, err
	}
	s.emitLoanUpdated(ctx, loan, events.Actor{UserID: ownerID, Role: domain.RoleRegular})
	return loan, nil
}

// DeleteOwnLoan removes a loan the caller owns while it is still processing.
func (s *LoanService) DeleteOwnLoan(ctx context.Context, ownerID, loanID string) error {
	loan, err := s.loans.GetByIDAndOwner(ctx, loanID, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("loan", map[string]any{"loan_id": loanID})
		}
		return apperrors.MapError(err)
	}

	if !policy.CanDeleteLoan(domain.RoleRegular, ownerID, loan) {
		return apperrors.NewConflict("only processing loans can be deleted", map[string]any{"status": loan.Status})
	}

	if err := s.loans.Delete(ctx, loanID); err != nil {
		return apperrors.MapError(err)
	}

	s.invalidateOwner(ctx, ownerID)
	s.publish(ctx, events.Event{
		Type:     events.EventLoanDeleted,
		TargetID: loanID,
		Actor:    events.Actor{UserID: ownerID, Role: domain.RoleRegular},
		Payload:  events.LoanDeletedPayload{OwnerID: ownerID, Status: loan.Status},
	})
	s.logger.Info("loan deleted by owner", zap.String("loan_id", loanID), zap.String("owner_id", ownerID))
	return nil
}

// GetAnyUserLoans lets an accountant list any user's loans. The lookup is by
// foreign key, so an unknown user yields an empty list rather than an error.
func (s *LoanService) GetAnyUserLoans(ctx context.Context, requesterRole domain.UserRole, targetUserID string) ([]domain.Loan, error) {
	if !policy.CanReadAnyLoans(requesterRole) {
		s.logger.Warn("unauthorized cross-account loan read", zap.String("role", string(requesterRole)))
		return nil, apperrors.NewForbidden("only accountants can view other users' loans")
	}
	return s.GetOwnLoans(ctx, targetUserID)
}

// UpdateAnyLoan lets an accountant edit a loan regardless of its status.
func (s *LoanService) UpdateAnyLoan(ctx context.Context, requester events.Actor, loanID string, input LoanInput) (*domain.Loan, error) {
	if !policy.CanReadAnyLoans(requester.Role) {
		return nil, apperrors.NewForbidden("only accountants can update other users' loans")
	}

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("loan", map[string]any{"loan_id": loanID})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.applyLoanFields(ctx, loan, input); err != nil {
		return nil, err
	}
	s.emitLoanUpdated(ctx, loan, requester)
	return loan, nil
}

// DeleteAnyLoan lets an accountant delete a loan unconditionally.
func (s *LoanService) DeleteAnyLoan(ctx context.Context, requester events.Actor, loanID string) error {
	if !policy.CanReadAnyLoans(requester.Role) {
		return apperrors.NewForbidden("only accountants can delete other users' loans")
	}

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("loan", map[string]any{"loan_id": loanID})
		}
		return apperrors.MapError(err)
	}

	if err := s.loans.Delete(ctx, loanID); err != nil {
		return apperrors.MapError(err)
	}

	s.invalidateOwner(ctx, loan.OwnerID)
	s.publish(ctx, events.Event{
		Type:     events.EventLoanDeleted,
		TargetID: loanID,
		Actor:    requester,
		Payload:  events.LoanDeletedPayload{OwnerID: loan.OwnerID, Status: loan.Status},
	})
	s.logger.Info("loan deleted by accountant", zap.String("loan_id", loanID), zap.String("actor_id", requester.UserID))
	return nil
}

// applyLoanFields validates the input tokens and persists the four editable
// fields. Status, owner, and creation time are never touched here.
func (s *LoanService) applyLoanFields(ctx context.Context, loan *domain.Loan, input LoanInput) error {
	loanType, currency, err := parseLoanFields(input)
	if err != nil {
		return err
	}

	loan.Type = loanType
	loan.Amount = input.Amount
	loan.Currency = currency
	loan.PeriodMonths = input.PeriodMonths
	if err := s.loans.Update(ctx, loan); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *LoanService) emitLoanUpdated(ctx context.Context, loan *domain.Loan, actor events.Actor) {
	s.invalidateOwner(ctx, loan.OwnerID)
	s.publish(ctx, events.Event{
		Type:     events.EventLoanUpdated,
		TargetID: loan.ID,
		Actor:    actor,
		Payload: events.LoanUpdatedPayload{
			OwnerID:      loan.OwnerID,
			Type:         loan.Type,
			Amount:       loan.Amount.String(),
			Currency:     loan.Currency,
			PeriodMonths: loan.PeriodMonths,
		},
	})
	s.logger.Info("loan updated", zap.String("loan_id", loan.ID), zap.String("actor_id", actor.UserID))
}

func (s *LoanService) invalidateOwner(ctx context.Context, ownerID string) {
	if err := s.loanCache.InvalidateOwner(ctx, ownerID); err != nil {
		s.logger.Warn("failed to invalidate loan cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func (s *LoanService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func parseLoanFields(input LoanInput) (domain.LoanType, domain.Currency, error) {
	loanType, ok := domain.ParseLoanType(input.Type)
	if !ok {
		return "", "", apperrors.NewValidationError("invalid loan type", map[string]any{"type": input.Type})
	}
	currency, ok := domain.ParseCurrency(input.Currency)
	if !ok {
		return "", "", apperrors.NewValidationError("invalid currency", map[string]any{"currency": input.Currency})
	}
	if !input.Amount.IsPositive() {
		return "", "", apperrors.NewValidationError("amount must be positive", map[string]any{"amount": input.Amount.String()})
	}
	if input.PeriodMonths <= 0 {
		return "", "", apperrors.NewValidationError("period_months must be positive", map[string]any{"period_months": input.PeriodMonths})
	}
	return loanType, currency, nil
}
