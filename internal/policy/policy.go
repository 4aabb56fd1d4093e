// Package policy holds the access decision rules for loans and accounts.
// Every function is pure: the caller supplies the requester's identity and
// the target record, and gets back an allow/deny answer with no I/O.
package policy

import "github.com/Tornike222/Loan-Api/internal/domain"

// CanCreateLoan denies loan creation for blocked accounts.
func CanCreateLoan(requesterBlocked bool) bool {
	return !requesterBlocked
}

// CanReadOwnLoans always permits reading one's own loans.
func CanReadOwnLoans() bool {
	return true
}

// CanReadAnyLoans permits cross-account loan reads for accountants only.
func CanReadAnyLoans(role domain.UserRole) bool {
	return role == domain.RoleAccountant
}

// CanMutateLoan permits the owner while the loan is still processing, and
// accountants in any status.
func CanMutateLoan(role domain.UserRole, requesterID string, loan *domain.Loan) bool {
	if role == domain.RoleAccountant {
		return true
	}
	return requesterID == loan.OwnerID && loan.Status == domain.LoanStatusProcessing
}

// CanDeleteLoan follows the same rule as mutation.
func CanDeleteLoan(role domain.UserRole, requesterID string, loan *domain.Loan) bool {
	return CanMutateLoan(role, requesterID, loan)
}

// CanChangeLoanStatus restricts status transitions to accountants.
func CanChangeLoanStatus(role domain.UserRole) bool {
	return role == domain.RoleAccountant
}

// CanModerateAccount restricts block/unblock to accountants.
func CanModerateAccount(role domain.UserRole) bool {
	return role == domain.RoleAccountant
}
