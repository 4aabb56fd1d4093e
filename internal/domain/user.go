package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UserRole enumerates account privilege levels.
type UserRole string

const (
	RoleRegular    UserRole = "REGULAR"
	RoleAccountant UserRole = "ACCOUNTANT"
)

// ParseUserRole resolves a role token case-insensitively.
func ParseUserRole(raw string) (UserRole, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleRegular), "USER":
		return RoleRegular, true
	case string(RoleAccountant):
		return RoleAccountant, true
	default:
		return "", false
	}
}

// User is the domain model for platform accounts.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Username      string
	Email         string
	Age           int
	MonthlyIncome decimal.Decimal
	PasswordHash  string
	Role          UserRole
	IsBlocked     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
