//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"isp-selfcare/internal/domain"
	"isp-selfcare/internal/usecase"
)

func TestPlanUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("should store the price in minor units", func(t *testing.T) {
		plans := NewMockPlanRepo()
		uc := usecase.NewPlanUseCase(plans)

		p, err := uc.Create(ctx, "Home Plus", "streaming tier", 19.99, "monthly", "50 Mbps", "500 GB")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.PriceMinor != 1999 {
			t.Errorf("price = %d minor units, want 1999", p.PriceMinor)
		}
		stored, err := plans.FindByID(ctx, nil, p.ID)
		if err != nil {
			t.Fatalf("plan not persisted: %v", err)
		}
		if !stored.IsActive {
			t.Error("new plan should start active")
		}
	})

	t.Run("should reject unknown billing cycles", func(t *testing.T) {
		uc := usecase.NewPlanUseCase(NewMockPlanRepo())
		if _, err := uc.Create(ctx, "Odd", "", 10, "fortnightly", "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject non-positive prices", func(t *testing.T) {
		uc := usecase.NewPlanUseCase(NewMockPlanRepo())
		if _, err := uc.Create(ctx, "Free", "", 0, "monthly", "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPlanUseCase_Deactivate(t *testing.T) {
	ctx := context.Background()
	plans := NewMockPlanRepo()
	uc := usecase.NewPlanUseCase(plans)

	p, err := uc.Create(ctx, "Home Basic", "", 9.99, "monthly", "10 Mbps", "100 GB")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.Deactivate(ctx, p.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	stored, _ := plans.FindByID(ctx, nil, p.ID)
	if stored.IsActive {
		t.Error("plan should be inactive")
	}
	active, _ := uc.ListActive(ctx)
	for _, a := range active {
		if a.ID == p.ID {
			t.Error("deactivated plan still listed to customers")
		}
	}

	if err := uc.Deactivate(ctx, "no-such-plan"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
