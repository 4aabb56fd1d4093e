package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Tornike222/Loan-Api/internal/api/dto"
	"github.com/Tornike222/Loan-Api/internal/auth"
	"github.com/Tornike222/Loan-Api/internal/service"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

// LoansHandler manages owner-facing loan endpoints.
type LoansHandler struct {
	loans *service.LoanService
}

// NewLoansHandler constructs handler.
func NewLoansHandler(loanService *service.LoanService) *LoansHandler {
	return &LoansHandler{loans: loanService}
}

// CreateLoan POST /loans.
func (h *LoansHandler) CreateLoan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	loan, err := h.loans.CreateLoan(c.Context(), principal.User.ID, service.LoanInput{
		Type:         req.Type,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PeriodMonths: req.PeriodMonths,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLoanResponse(loan)})
}

// ListLoans GET /loans.
func (h *LoansHandler) ListLoans(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	loans, err := h.loans.GetOwnLoans(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLoanListResponse(loans)})
}

// UpdateLoan PUT /loans/:id.
func (h *LoansHandler) UpdateLoan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	loan, err := h.loans.UpdateOwnLoan(c.Context(), principal.User.ID, c.Params("id"), service.LoanInput{
		Type:         req.Type,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PeriodMonths: req.PeriodMonths,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLoanResponse(loan)})
}

// DeleteLoan DELETE /loans/:id.
func (h *LoansHandler) DeleteLoan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.loans.DeleteOwnLoan(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
