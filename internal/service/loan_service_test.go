package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Tornike222/Loan-Api/internal/domain"
	"github.com/Tornike222/Loan-Api/internal/events"
	"github.com/Tornike222/Loan-Api/internal/testutil/eventsmock"
	"github.com/Tornike222/Loan-Api/internal/testutil/loanmock"
	"github.com/Tornike222/Loan-Api/internal/testutil/usermock"
	apperrors "github.com/Tornike222/Loan-Api/pkg/util"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, de.Code, err)
	}
}

func validInput() LoanInput {
	return LoanInput{
		Type:         "fast",
		Amount:       decimal.NewFromInt(500),
		Currency:     "gel",
		PeriodMonths: 6,
	}
}

func newLoanService(users *usermock.Repo, loans *loanmock.Repo, recorder *eventsmock.Recorder) *LoanService {
	deps := LoanDependencies{UserRepo: users, LoanRepo: loans}
	if recorder != nil {
		deps.Dispatcher = recorder
	}
	return NewLoanService(deps)
}

func TestCreateLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown owner", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		_, err := svc.CreateLoan(ctx, "ghost", validInput())
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("blocked owner", func(t *testing.T) {
		users := &usermock.Repo{
			GetByIDFn: func(context.Context, string) (*domain.User, error) {
				return &domain.User{ID: "u1", IsBlocked: true}, nil
			},
		}
		svc := newLoanService(users, &loanmock.Repo{}, nil)
		_, err := svc.CreateLoan(ctx, "u1", validInput())
		assertCode(t, err, "FORBIDDEN")
	})

	invalidInputs := []struct {
		name   string
		mutate func(*LoanInput)
	}{
		{"unknown type", func(in *LoanInput) { in.Type = "crypto" }},
		{"unknown currency", func(in *LoanInput) { in.Currency = "EUR" }},
		{"zero amount", func(in *LoanInput) { in.Amount = decimal.Zero }},
		{"negative amount", func(in *LoanInput) { in.Amount = decimal.NewFromInt(-5) }},
		{"zero period", func(in *LoanInput) { in.PeriodMonths = 0 }},
	}
	for _, tt := range invalidInputs {
		t.Run(tt.name, func(t *testing.T) {
			users := &usermock.Repo{
				GetByIDFn: func(context.Context, string) (*domain.User, error) {
					return &domain.User{ID: "u1"}, nil
				},
			}
			svc := newLoanService(users, &loanmock.Repo{}, nil)
			in := validInput()
			tt.mutate(&in)
			_, err := svc.CreateLoan(ctx, "u1", in)
			assertCode(t, err, "VALIDATION_FAILED")
		})
	}

	t.Run("success starts processing and publishes event", func(t *testing.T) {
		users := &usermock.Repo{
			GetByIDFn: func(context.Context, string) (*domain.User, error) {
				return &domain.User{ID: "u1", Role: domain.RoleRegular}, nil
			},
		}
		loans := &loanmock.Repo{
			CreateFn: func(_ context.Context, loan *domain.Loan) error {
				loan.ID = "l1"
				return nil
			},
		}
		recorder := &eventsmock.Recorder{}
		svc := newLoanService(users, loans, recorder)

		loan, err := svc.CreateLoan(ctx, "u1", validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loan.Status != domain.LoanStatusProcessing {
			t.Fatalf("new loan status = %s, want PROCESSING", loan.Status)
		}
		if loan.Type != domain.LoanTypeFast || loan.Currency != domain.CurrencyGEL {
			t.Fatalf("enum tokens not normalized: %+v", loan)
		}
		last := recorder.Last()
		if last == nil || last.Type != events.EventLoanCreated {
			t.Fatalf("expected loan_created event, got %+v", last)
		}
	})
}

func TestUpdateLoanStatus(t *testing.T) {
	ctx := context.Background()
	accountant := events.Actor{UserID: "acc1", Role: domain.RoleAccountant}

	t.Run("unknown loan", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		_, err := svc.UpdateLoanStatus(ctx, "ghost", accountant, "approved")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("non-accountant", func(t *testing.T) {
		loans := &loanmock.Repo{
			GetByIDFn: func(context.Context, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", Status: domain.LoanStatusProcessing}, nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, nil)
		_, err := svc.UpdateLoanStatus(ctx, "l1", events.Actor{UserID: "u1", Role: domain.RoleRegular}, "approved")
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("unknown status", func(t *testing.T) {
		loans := &loanmock.Repo{
			GetByIDFn: func(context.Context, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", Status: domain.LoanStatusProcessing}, nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, nil)
		_, err := svc.UpdateLoanStatus(ctx, "l1", accountant, "finalized")
		assertCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("any transition allowed including reopening", func(t *testing.T) {
		transitions := []struct {
			from domain.LoanStatus
			to   string
			want domain.LoanStatus
		}{
			{domain.LoanStatusProcessing, "Approved", domain.LoanStatusApproved},
			{domain.LoanStatusApproved, "rejected", domain.LoanStatusRejected},
			{domain.LoanStatusRejected, "PROCESSING", domain.LoanStatusProcessing},
		}
		for _, tr := range transitions {
			var saved *domain.Loan
			loans := &loanmock.Repo{
				GetByIDFn: func(context.Context, string) (*domain.Loan, error) {
					return &domain.Loan{ID: "l1", OwnerID: "u1", Status: tr.from}, nil
				},
				UpdateFn: func(_ context.Context, loan *domain.Loan) error {
					saved = loan
					return nil
				},
			}
			recorder := &eventsmock.Recorder{}
			svc := newLoanService(&usermock.Repo{}, loans, recorder)

			loan, err := svc.UpdateLoanStatus(ctx, "l1", accountant, tr.to)
			if err != nil {
				t.Fatalf("%s -> %s: unexpected error: %v", tr.from, tr.to, err)
			}
			if loan.Status != tr.want || saved == nil || saved.Status != tr.want {
				t.Fatalf("%s -> %s: status not persisted", tr.from, tr.to)
			}
			last := recorder.Last()
			if last == nil || last.Type != events.EventLoanStatusChanged {
				t.Fatalf("expected loan_status_changed event, got %+v", last)
			}
		}
	})
}

func TestUpdateOwnLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown loan for owner", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		_, err := svc.UpdateOwnLoan(ctx, "u1", "ghost", validInput())
		assertCode(t, err, "NOT_FOUND")
	})

	for _, status := range []domain.LoanStatus{domain.LoanStatusApproved, domain.LoanStatusRejected} {
		t.Run("conflict when "+string(status), func(t *testing.T) {
			loans := &loanmock.Repo{
				GetByIDAndOwnerFn: func(context.Context, string, string) (*domain.Loan, error) {
					return &domain.Loan{ID: "l1", OwnerID: "u1", Status: status}, nil
				},
			}
			svc := newLoanService(&usermock.Repo{}, loans, nil)
			_, err := svc.UpdateOwnLoan(ctx, "u1", "l1", validInput())
			assertCode(t, err, "CONFLICT")
		})
	}

	t.Run("invalid type", func(t *testing.T) {
		loans := &loanmock.Repo{
			GetByIDAndOwnerFn: func(context.Context, string, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", OwnerID: "u1", Status: domain.LoanStatusProcessing}, nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, nil)
		in := validInput()
		in.Type = "margin"
		_, err := svc.UpdateOwnLoan(ctx, "u1", "l1", in)
		assertCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("success edits only editable fields", func(t *testing.T) {
		original := &domain.Loan{
			ID:           "l1",
			OwnerID:      "u1",
			Type:         domain.LoanTypeAuto,
			Amount:       decimal.NewFromInt(100),
			Currency:     domain.CurrencyUSD,
			PeriodMonths: 12,
			Status:       domain.LoanStatusProcessing,
		}
		var saved *domain.Loan
		loans := &loanmock.Repo{
			GetByIDAndOwnerFn: func(context.Context, string, string) (*domain.Loan, error) {
				return original, nil
			},
			UpdateFn: func(_ context.Context, loan *domain.Loan) error {
				saved = loan
				return nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, &eventsmock.Recorder{})

		loan, err := svc.UpdateOwnLoan(ctx, "u1", "l1", validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved == nil {
			t.Fatal("update never persisted")
		}
		if loan.Type != domain.LoanTypeFast || !loan.Amount.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("fields not applied: %+v", loan)
		}
		if loan.OwnerID != "u1" || loan.Status != domain.LoanStatusProcessing {
			t.Fatalf("immutable fields changed: %+v", loan)
		}
	})
}

func TestDeleteOwnLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown loan", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		err := svc.DeleteOwnLoan(ctx, "u1", "ghost")
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("conflict when approved", func(t *testing.T) {
		deleted := false
		loans := &loanmock.Repo{
			GetByIDAndOwnerFn: func(context.Context, string, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", OwnerID: "u1", Status: domain.LoanStatusApproved}, nil
			},
			DeleteFn: func(context.Context, string) error {
				deleted = true
				return nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, nil)
		err := svc.DeleteOwnLoan(ctx, "u1", "l1")
		assertCode(t, err, "CONFLICT")
		if deleted {
			t.Fatal("loan deleted despite conflict")
		}
	})

	t.Run("success while processing", func(t *testing.T) {
		deleted := false
		loans := &loanmock.Repo{
			GetByIDAndOwnerFn: func(context.Context, string, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", OwnerID: "u1", Status: domain.LoanStatusProcessing}, nil
			},
			DeleteFn: func(context.Context, string) error {
				deleted = true
				return nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, &eventsmock.Recorder{})
		if err := svc.DeleteOwnLoan(ctx, "u1", "l1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Fatal("loan not deleted")
		}
	})
}

func TestAccountantLoanOperations(t *testing.T) {
	ctx := context.Background()
	accountant := events.Actor{UserID: "acc1", Role: domain.RoleAccountant}
	regular := events.Actor{UserID: "u2", Role: domain.RoleRegular}

	t.Run("list forbidden for regular", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		_, err := svc.GetAnyUserLoans(ctx, domain.RoleRegular, "u1")
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("list unknown user yields empty list", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		loans, err := svc.GetAnyUserLoans(ctx, domain.RoleAccountant, "ghost")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(loans) != 0 {
			t.Fatalf("expected empty list, got %d", len(loans))
		}
	})

	t.Run("update forbidden for regular", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		_, err := svc.UpdateAnyLoan(ctx, regular, "l1", validInput())
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("update unknown loan", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		_, err := svc.UpdateAnyLoan(ctx, accountant, "ghost", validInput())
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("update succeeds in any status", func(t *testing.T) {
		loans := &loanmock.Repo{
			GetByIDFn: func(context.Context, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", OwnerID: "u1", Status: domain.LoanStatusApproved}, nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, &eventsmock.Recorder{})
		loan, err := svc.UpdateAnyLoan(ctx, accountant, "l1", validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loan.Status != domain.LoanStatusApproved {
			t.Fatalf("status changed by field update: %s", loan.Status)
		}
	})

	t.Run("delete forbidden for regular", func(t *testing.T) {
		svc := newLoanService(&usermock.Repo{}, &loanmock.Repo{}, nil)
		err := svc.DeleteAnyLoan(ctx, regular, "l1")
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("delete unconditional for accountant", func(t *testing.T) {
		deleted := false
		loans := &loanmock.Repo{
			GetByIDFn: func(context.Context, string) (*domain.Loan, error) {
				return &domain.Loan{ID: "l1", OwnerID: "u1", Status: domain.LoanStatusRejected}, nil
			},
			DeleteFn: func(context.Context, string) error {
				deleted = true
				return nil
			},
		}
		svc := newLoanService(&usermock.Repo{}, loans, &eventsmock.Recorder{})
		if err := svc.DeleteAnyLoan(ctx, accountant, "l1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Fatal("loan not deleted")
		}
	})
}

// memoryLoans backs the scenario tests with a single mutable loan store.
type memoryLoans struct {
	loanmock.Repo
	byID map[string]*domain.Loan
}

func newMemoryLoans() *memoryLoans {
	m := &memoryLoans{byID: make(map[string]*domain.Loan)}
	m.CreateFn = func(_ context.Context, loan *domain.Loan) error {
		loan.ID = "l1"
		copied := *loan
		m.byID[loan.ID] = &copied
		return nil
	}
	m.UpdateFn = func(_ context.Context, loan *domain.Loan) error {
		copied := *loan
		m.byID[loan.ID] = &copied
		return nil
	}
	m.GetByIDFn = func(_ context.Context, id string) (*domain.Loan, error) {
		if loan, ok := m.byID[id]; ok {
			copied := *loan
			return &copied, nil
		}
		return nil, pgx.ErrNoRows
	}
	m.GetByIDAndOwnerFn = func(ctx context.Context, id, ownerID string) (*domain.Loan, error) {
		loan, err := m.GetByIDFn(ctx, id)
		if err != nil || loan.OwnerID != ownerID {
			return nil, pgx.ErrNoRows
		}
		return loan, nil
	}
	m.ListByOwnerFn = func(_ context.Context, ownerID string) ([]domain.Loan, error) {
		loans := make([]domain.Loan, 0)
		for _, loan := range m.byID {
			if loan.OwnerID == ownerID {
				loans = append(loans, *loan)
			}
		}
		return loans, nil
	}
	return m
}

func TestLoanLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	users := &usermock.Repo{
		GetByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.RoleRegular}, nil
		},
	}
	store := newMemoryLoans()
	svc := newLoanService(users, &store.Repo, &eventsmock.Recorder{})
	accountant := events.Actor{UserID: "acc1", Role: domain.RoleAccountant}

	// Owner creates a loan; it lands in PROCESSING and shows up in the list.
	created, err := svc.CreateLoan(ctx, "ownerA", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	listed, err := svc.GetOwnLoans(ctx, "ownerA")
	if err != nil || len(listed) != 1 {
		t.Fatalf("list after create: %v, %d loans", err, len(listed))
	}
	if listed[0].ID != created.ID || listed[0].Status != domain.LoanStatusProcessing ||
		!listed[0].Amount.Equal(created.Amount) {
		t.Fatalf("round trip mismatch: %+v vs %+v", listed[0], created)
	}

	// Accountant approves.
	if _, err := svc.UpdateLoanStatus(ctx, created.ID, accountant, "Approved"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Owner can no longer edit.
	_, err = svc.UpdateOwnLoan(ctx, "ownerA", created.ID, validInput())
	assertCode(t, err, "CONFLICT")

	// Accountant still can.
	in := validInput()
	in.Amount = decimal.NewFromInt(600)
	updated, err := svc.UpdateAnyLoan(ctx, accountant, created.ID, in)
	if err != nil {
		t.Fatalf("accountant update: %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(600)) || updated.Status != domain.LoanStatusApproved {
		t.Fatalf("accountant update result: %+v", updated)
	}
}
