package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

func TestCategoriesListDefaultsPlusCustom(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaxonomyService(repo)
	ctx := context.Background()

	if err := svc.CreateCategory(ctx, "user_a", "Pets"); err != nil {
		t.Fatalf("create: %v", err)
	}

	cats, err := svc.Categories(ctx, "user_a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range append(slices.Clone(core.DefaultCategories), "Pets") {
		if !slices.Contains(cats, want) {
			t.Errorf("missing category %q in %v", want, cats)
		}
	}

	// Custom categories stay private to their owner.
	other, err := svc.Categories(ctx, "user_b")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if slices.Contains(other, "Pets") {
		t.Errorf("custom category leaked across owners: %v", other)
	}
}

func TestCategoryCreateRejectsBuiltins(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaxonomyService(repo)
	ctx := context.Background()

	for _, name := range []string{"", "Food", core.CreditCategory} {
		if err := svc.CreateCategory(ctx, "user_a", name); !errors.Is(err, ErrValidation) {
			t.Errorf("create %q: got %v, want ErrValidation", name, err)
		}
	}
}

func TestCategoryDelete(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaxonomyService(repo)
	ctx := context.Background()

	if err := svc.DeleteCategory(ctx, "user_a", "Food"); !errors.Is(err, ErrValidation) {
		t.Fatalf("deleting a default category: got %v, want ErrValidation", err)
	}

	if err := svc.CreateCategory(ctx, "user_a", "Pets"); err != nil {
		t.Fatalf("create: %v", err)
	}
	seedTransaction(t, repo, core.NewDate(2025, 3, 1), 10_00, core.Expense, "Pets")
	if err := svc.DeleteCategory(ctx, "user_a", "Pets"); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("deleting a referenced category: got %v, want ErrConflict", err)
	}
}

func TestPayerLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTaxonomyService(repo)
	ctx := context.Background()

	p, err := svc.CreatePayer(ctx, core.Payer{Owner: "user_a", Name: "Ravi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreatePayer(ctx, core.Payer{Owner: "user_a", Name: "Ravi"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate payer: got %v, want ErrConflict", err)
	}
	if _, err := svc.CreatePayer(ctx, core.Payer{Owner: "user_a"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty payer name: got %v, want ErrValidation", err)
	}

	tx := validExpense()
	tx.PaidBy = "Ravi"
	txSvc := NewTransactionService(repo, nil)
	if _, err := txSvc.Create(ctx, tx); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	if err := svc.DeletePayer(ctx, "user_a", p.ID); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("deleting a referenced payer: got %v, want ErrConflict", err)
	}
}
