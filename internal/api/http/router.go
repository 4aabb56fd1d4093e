package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Tornike222/Loan-Api/internal/api/http/handlers"
	"github.com/Tornike222/Loan-Api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Loans          *handlers.LoansHandler
	Accountant     *handlers.AccountantHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/users/:id", cfg.Users.GetUser)

	loans := protected.Group("/loans")
	loans.Post("", cfg.Loans.CreateLoan)
	loans.Get("", cfg.Loans.ListLoans)
	loans.Put("/:id", cfg.Loans.UpdateLoan)
	loans.Delete("/:id", cfg.Loans.DeleteLoan)

	accountant := protected.Group("/accountant", auth.RequireAccountant())
	accountant.Get("/users/:id/loans", cfg.Accountant.ListUserLoans)
	accountant.Put("/loans/:id", cfg.Accountant.UpdateAnyLoan)
	accountant.Delete("/loans/:id", cfg.Accountant.DeleteAnyLoan)
	accountant.Patch("/loans/:id/status", cfg.Accountant.UpdateLoanStatus)
	accountant.Post("/users/:id/block", cfg.Accountant.BlockUser)
	accountant.Post("/users/:id/unblock", cfg.Accountant.UnblockUser)
}
