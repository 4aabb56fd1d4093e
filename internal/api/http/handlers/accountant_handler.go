package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Tornike222/Loan-Api/internal/api/dto"
	"github.com/Tornike222/Loan-Api/internal/auth"
	"github.com/Tornike222/Loan-Api/internal/events"
	"github.com/Tornike222/Loan-Api/internal/service"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

// AccountantHandler exposes cross-account loan management and account
// moderation endpoints. Routes using it sit behind the accountant gate.
type AccountantHandler struct {
	loans      *service.LoanService
	moderation *service.ModerationService
}

// NewAccountantHandler constructs handler.
func NewAccountantHandler(loanService *service.LoanService, moderationService *service.ModerationService) *AccountantHandler {
	return &AccountantHandler{loans: loanService, moderation: moderationService}
}

// ListUserLoans GET /accountant/users/:id/loans.
func (h *AccountantHandler) ListUserLoans(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	loans, err := h.loans.GetAnyUserLoans(c.Context(), principal.Role, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLoanListResponse(loans)})
}

// UpdateAnyLoan PUT /accountant/loans/:id.
func (h *AccountantHandler) UpdateAnyLoan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	loan, err := h.loans.UpdateAnyLoan(c.Context(), actorFromPrincipal(principal), c.Params("id"), service.LoanInput{
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

// DeleteAnyLoan DELETE /accountant/loans/:id.
func (h *AccountantHandler) DeleteAnyLoan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.loans.DeleteAnyLoan(c.Context(), actorFromPrincipal(principal), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateLoanStatus PATCH /accountant/loans/:id/status.
func (h *AccountantHandler) UpdateLoanStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateLoanStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	loan, err := h.loans.UpdateLoanStatus(c.Context(), c.Params("id"), actorFromPrincipal(principal), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLoanResponse(loan)})
}

// BlockUser POST /accountant/users/:id/block.
func (h *AccountantHandler) BlockUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.moderation.BlockUser(c.Context(), c.Params("id"), principal.User.Username, principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UnblockUser POST /accountant/users/:id/unblock.
func (h *AccountantHandler) UnblockUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.moderation.UnblockUser(c.Context(), c.Params("id"), principal.User.Username, principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func actorFromPrincipal(principal *auth.Principal) events.Actor {
	return events.Actor{
		UserID: principal.User.ID,
		Name:   principal.User.Username,
		Role:   principal.Role,
	}
}
