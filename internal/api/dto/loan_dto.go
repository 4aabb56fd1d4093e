package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

// LoanRequest payload for creating or updating a loan. Type and currency are
// raw tokens validated by the service.
type LoanRequest struct {
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	PeriodMonths int             `json:"period_months"`
}

// UpdateLoanStatusRequest payload for accountant status decisions.
type UpdateLoanStatusRequest struct {
	Status string `json:"status"`
}

// LoanResponse response shape for a single loan.
type LoanResponse struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	Type         domain.LoanType   `json:"type"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     domain.Currency   `json:"currency"`
	PeriodMonths int               `json:"period_months"`
	Status       domain.LoanStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewLoanResponse maps a domain loan to its response shape.
func NewLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:           loan.ID,
		OwnerID:      loan.OwnerID,
		Type:         loan.Type,
		Amount:       loan.Amount,
		Currency:     loan.Currency,
		PeriodMonths: loan.PeriodMonths,
		Status:       loan.Status,
		CreatedAt:    loan.CreatedAt,
		UpdatedAt:    loan.UpdatedAt,
	}
}

// NewLoanListResponse maps a slice of loans.
func NewLoanListResponse(loans []domain.Loan) []LoanResponse {
	items := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		items = append(items, NewLoanResponse(&loans[i]))
	}
	return items
}
