package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanType enumerates supported loan products.
type LoanType string

const (
	LoanTypeFast        LoanType = "FAST"
	LoanTypeAuto        LoanType = "AUTO"
	LoanTypeInstallment LoanType = "INSTALLMENT"
)

// Currency enumerates supported loan currencies.
type Currency string

const (
	CurrencyGEL Currency = "GEL"
	CurrencyUSD Currency = "USD"
)

// LoanStatus enumerates lifecycle states for loans.
type LoanStatus string

const (
	LoanStatusProcessing LoanStatus = "PROCESSING"
	LoanStatusApproved   LoanStatus = "APPROVED"
	LoanStatusRejected   LoanStatus = "REJECTED"
)

// ParseLoanType resolves a loan type token case-insensitively.
func ParseLoanType(raw string) (LoanType, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(LoanTypeFast):
		return LoanTypeFast, true
	case string(LoanTypeAuto):
		return LoanTypeAuto, true
	case string(LoanTypeInstallment):
		return LoanTypeInstallment, true
	default:
		return "", false
	}
}

// ParseCurrency resolves a currency token case-insensitively.
func ParseCurrency(raw string) (Currency, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(CurrencyGEL):
		return CurrencyGEL, true
	case string(CurrencyUSD):
		return CurrencyUSD, true
	default:
		return "", false
	}
}

// ParseLoanStatus resolves a status token case-insensitively.
func ParseLoanStatus(raw string) (LoanStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(LoanStatusProcessing):
		return LoanStatusProcessing, true
	case string(LoanStatusApproved):
		return LoanStatusApproved, true
	case string(LoanStatusRejected):
		return LoanStatusRejected, true
	default:
		return "", false
	}
}

// Loan is the aggregate for loan requests. OwnerID and CreatedAt are
// immutable after creation; Status leaves PROCESSING only through an
// accountant decision.
type Loan struct {
	ID           string
	OwnerID      string
	Type         LoanType
	Amount       decimal.Decimal
	Currency     Currency
	PeriodMonths int
	Status       LoanStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
