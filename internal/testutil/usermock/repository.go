// Package usermock provides a function-field test double for the user repository.
package usermock

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

// Repo implements repository.UserRepository with overridable functions.
// Unset functions report pgx.ErrNoRows for lookups and succeed for writes.
type Repo struct {
	CreateFn        func(ctx context.Context, user *domain.User) error
	UpdateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
}

func (r *Repo) Create(ctx context.Context, user *domain.User) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, user)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, user *domain.User) error {
	if r.UpdateFn != nil {
		return r.UpdateFn(ctx, user)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.GetByIDFn != nil {
		return r.GetByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.GetByUsernameFn != nil {
		return r.GetByUsernameFn(ctx, username)
	}
	return nil, pgx.ErrNoRows
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.GetByEmailFn != nil {
		return r.GetByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}
