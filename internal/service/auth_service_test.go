package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Tornike222/Loan-Api/internal/auth"
	"github.com/Tornike222/Loan-Api/internal/config"
	"github.com/Tornike222/Loan-Api/internal/domain"
	"github.com/Tornike222/Loan-Api/internal/testutil/usermock"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Giorgi",
		LastName:  "Beridze",
		Username:  "giorgi",
		Email:     "giorgi@example.com",
		Age:       30,
		Password:  "secret123",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("username taken", func(t *testing.T) {
		users := &usermock.Repo{
			GetByUsernameFn: func(context.Context, string) (*domain.User, error) {
				return &domain.User{ID: "u1"}, nil
			},
		}
		svc := NewAuthService(testConfig(), users, nil, nil)
		_, err := svc.Register(ctx, registerInput())
		assertCode(t, err, "CONFLICT")
	})

	t.Run("email taken", func(t *testing.T) {
		users := &usermock.Repo{
			GetByEmailFn: func(context.Context, string) (*domain.User, error) {
				return &domain.User{ID: "u1"}, nil
			},
		}
		svc := NewAuthService(testConfig(), users, nil, nil)
		_, err := svc.Register(ctx, registerInput())
		assertCode(t, err, "CONFLICT")
	})

	t.Run("role defaults to regular", func(t *testing.T) {
		users := &usermock.Repo{
			CreateFn: func(_ context.Context, user *domain.User) error {
				user.ID = "u1"
				return nil
			},
		}
		svc := NewAuthService(testConfig(), users, nil, nil)

		user, err := svc.Register(ctx, registerInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != domain.RoleRegular {
			t.Fatalf("role = %s, want REGULAR", user.Role)
		}
		if user.PasswordHash == "" || user.PasswordHash == "secret123" {
			t.Fatal("password not hashed")
		}
	})

	t.Run("accountant role accepted case-insensitively", func(t *testing.T) {
		users := &usermock.Repo{
			CreateFn: func(_ context.Context, user *domain.User) error {
				user.ID = "u1"
				return nil
			},
		}
		svc := NewAuthService(testConfig(), users, nil, nil)

		in := registerInput()
		in.Role = "accountant"
		user, err := svc.Register(ctx, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != domain.RoleAccountant {
			t.Fatalf("role = %s, want ACCOUNTANT", user.Role)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stored := &domain.User{ID: "u1", Username: "giorgi", PasswordHash: hash, Role: domain.RoleAccountant}

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAuthService(testConfig(), &usermock.Repo{}, nil, nil)
		_, _, _, err := svc.Login(ctx, "nobody", "secret123")
		assertCode(t, err, "UNAUTHORIZED")
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &usermock.Repo{
			GetByUsernameFn: func(context.Context, string) (*domain.User, error) {
				return stored, nil
			},
		}
		svc := NewAuthService(testConfig(), users, nil, nil)
		_, _, _, err := svc.Login(ctx, "giorgi", "wrong")
		assertCode(t, err, "UNAUTHORIZED")
	})

	t.Run("success issues role-bearing token", func(t *testing.T) {
		users := &usermock.Repo{
			GetByUsernameFn: func(context.Context, string) (*domain.User, error) {
				return stored, nil
			},
		}
		svc := NewAuthService(testConfig(), users, nil, nil)

		user, token, _, err := svc.Login(ctx, "giorgi", "secret123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "u1" || token == "" {
			t.Fatalf("login result: %v, token %q", user, token)
		}
		claims, err := svc.TokenManager().ParseToken(token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		if claims.UserID != "u1" || claims.Role != domain.RoleAccountant {
			t.Fatalf("claims: %+v", claims)
		}
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	users := &usermock.Repo{
		GetByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			if id == "u1" {
				return &domain.User{ID: "u1", Username: "giorgi"}, nil
			}
			return (&usermock.Repo{}).GetByID(ctx, id)
		},
	}
	svc := NewAuthService(testConfig(), users, nil, nil)

	t.Run("self allowed", func(t *testing.T) {
		user, err := svc.GetUserByID(ctx, "u1", "u1", domain.RoleRegular)
		if err != nil || user.ID != "u1" {
			t.Fatalf("self lookup: %v, %v", user, err)
		}
	})

	t.Run("accountant allowed", func(t *testing.T) {
		if _, err := svc.GetUserByID(ctx, "u1", "acc1", domain.RoleAccountant); err != nil {
			t.Fatalf("accountant lookup: %v", err)
		}
	})

	t.Run("other regular forbidden", func(t *testing.T) {
		_, err := svc.GetUserByID(ctx, "u1", "u2", domain.RoleRegular)
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.GetUserByID(ctx, "ghost", "ghost", domain.RoleRegular)
		assertCode(t, err, "NOT_FOUND")
	})
}
