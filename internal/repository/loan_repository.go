package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

// LoanRepository encapsulates loan persistence.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Loan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Loan, error)
}

type loanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository instantiates repository.
func NewLoanRepository(pool *pgxpool.Pool) LoanRepository {
	return &loanRepository{pool: pool}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	const query = `
        INSERT INTO loans (owner_id, type, amount, currency, period_months, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		loan.OwnerID,
		loan.Type,
		loan.Amount,
		loan.Currency,
		loan.PeriodMonths,
		loan.Status,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	const query = `
        UPDATE loans SET type=$1, amount=$2, currency=$3, period_months=$4, status=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		loan.Type,
		loan.Amount,
		loan.Currency,
		loan.PeriodMonths,
		loan.Status,
		loan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	const query = `
        SELECT id, owner_id, type, amount, currency, period_months, status, created_at, updated_at
        FROM loans WHERE id=$1`
	return r.fetchSingle(r.pool.QueryRow(ctx, query, id))
}

func (r *loanRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Loan, error) {
	const query = `
        SELECT id, owner_id, type, amount, currency, period_months, status, created_at, updated_at
        FROM loans WHERE id=$1 AND owner_id=$2`
	return r.fetchSingle(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *loanRepository) fetchSingle(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	if err := row.Scan(
		&loan.ID,
		&loan.OwnerID,
		&loan.Type,
		&loan.Amount,
		&loan.Currency,
		&loan.PeriodMonths,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Loan, error) {
	const query = `
        SELECT id, owner_id, type, amount, currency, period_months, status, created_at, updated_at
        FROM loans WHERE owner_id=$1
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0)
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.OwnerID,
			&loan.Type,
			&loan.Amount,
			&loan.Currency,
			&loan.PeriodMonths,
			&loan.Status,
			&loan.CreatedAt,
			&loan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
