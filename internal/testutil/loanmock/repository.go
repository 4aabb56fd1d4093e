// Package loanmock provides a function-field test double for the loan repository.
package loanmock

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

// Repo implements repository.LoanRepository with overridable functions.
// Unset functions report pgx.ErrNoRows for lookups and succeed for writes.
type Repo struct {
	CreateFn          func(ctx context.Context, loan *domain.Loan) error
	UpdateFn          func(ctx context.Context, loan *domain.Loan) error
	DeleteFn          func(ctx context.Context, id string) error
	GetByIDFn         func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDAndOwnerFn func(ctx context.Context, id, ownerID string) (*domain.Loan, error)
	ListByOwnerFn     func(ctx context.Context, ownerID string) ([]domain.Loan, error)
}

func (r *Repo) Create(ctx context.Context, loan *domain.Loan) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, loan)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, loan *domain.Loan) error {
	if r.UpdateFn != nil {
		return r.UpdateFn(ctx, loan)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if r.DeleteFn != nil {
		return r.DeleteFn(ctx, id)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if r.GetByIDFn != nil {
		return r.GetByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Loan, error) {
	if r.GetByIDAndOwnerFn != nil {
		return r.GetByIDAndOwnerFn(ctx, id, ownerID)
	}
	return nil, pgx.ErrNoRows
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Loan, error) {
	if r.ListByOwnerFn != nil {
		return r.ListByOwnerFn(ctx, ownerID)
	}
	return []domain.Loan{}, nil
}
