package events

import (
	"time"

	"github.com/Tornike222/Loan-Api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoanCreated       EventType = "loan_created"
	EventLoanUpdated       EventType = "loan_updated"
	EventLoanDeleted       EventType = "loan_deleted"
	EventLoanStatusChanged EventType = "loan_status_changed"
	EventUserBlocked       EventType = "user_blocked"
	EventUserUnblocked     EventType = "user_unblocked"
	EventUserRegistered    EventType = "user_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Name   string          `json:"name,omitempty"`
	Role   domain.UserRole `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TargetID  string      `json:"target_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoanCreatedPayload payload.
type LoanCreatedPayload struct {
	OwnerID      string          `json:"owner_id"`
	Type         domain.LoanType `json:"type"`
	Amount       string          `json:"amount"`
	Currency     domain.Currency `json:"currency"`
	PeriodMonths int             `json:"period_months"`
}

// LoanUpdatedPayload payload.
type LoanUpdatedPayload struct {
	OwnerID      string          `json:"owner_id"`
	Type         domain.LoanType `json:"type"`
	Amount       string          `json:"amount"`
	Currency     domain.Currency `json:"currency"`
	PeriodMonths int             `json:"period_months"`
}

// LoanStatusChangedPayload payload.
type LoanStatusChangedPayload struct {
	OldStatus domain.LoanStatus `json:"old_status"`
	NewStatus domain.LoanStatus `json:"new_status"`
}

// LoanDeletedPayload payload.
type LoanDeletedPayload struct {
	OwnerID string            `json:"owner_id"`
	Status  domain.LoanStatus `json:"status"`
}

// AccountModerationPayload payload for block/unblock events.
type AccountModerationPayload struct {
	Username string `json:"username"`
	Blocked  bool   `json:"blocked"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}
