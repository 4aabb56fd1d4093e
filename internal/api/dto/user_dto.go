package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	Password      string          `json:"password"`
	Role          string          `json:"role,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse account summary returned to callers.
type UserResponse struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	Role          domain.UserRole `json:"role"`
	IsBlocked     bool            `json:"is_blocked"`
}

// NewUserResponse maps a domain user to its response shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Username:      user.Username,
		Email:         user.Email,
		Age:           user.Age,
		MonthlyIncome: user.MonthlyIncome,
		Role:          user.Role,
		IsBlocked:     user.IsBlocked,
	}
}
