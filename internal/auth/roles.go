package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Tornike222/Loan-Api/internal/domain"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

// RequireAuthenticated ensures a caller is authenticated.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAccountant ensures the principal carries the accountant role. This is
// the transport-level gate for moderation and cross-account loan routes; the
// services behind it trust the caller was already authorized.
func RequireAccountant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != domain.RoleAccountant {
			return apperrors.NewForbidden("accountant role required")
		}
		return c.Next()
	}
}
