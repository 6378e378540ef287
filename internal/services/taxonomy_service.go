package services

import (
	"context"
	"fmt"
	"strings"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// TaxonomyService manages the reference lists used for input validation and
// filtering: categories (a fixed default set plus user-defined ones) and
// payers.
type TaxonomyService struct {
	repo *storage.Repository
}

func NewTaxonomyService(repo *storage.Repository) *TaxonomyService {
	return &TaxonomyService{repo: repo}
}

// Categories merges the fixed default set with the owner's own categories,
// defaults first.
func (s *TaxonomyService) Categories(ctx context.Context, owner string) ([]string, error) {
	custom, err := s.repo.ListCategories(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(core.DefaultCategories)+len(custom))
	out = append(out, core.DefaultCategories...)
	out = append(out, custom...)
	return out, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, owner, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: %v", ErrValidation, core.ErrEmptyCategory)
	}
	if core.IsDefaultCategory(name) || name == core.CreditCategory {
		return fmt.Errorf("%w: category %q is built in", ErrValidation, name)
	}
	return s.repo.CreateCategory(ctx, owner, name)
}

// DeleteCategory removes a user-defined category. The default set is fixed:
// attempting to remove one of those is rejected outright rather than hidden
// client-side.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, owner, name string) error {
	if core.IsDefaultCategory(name) {
		return fmt.Errorf("%w: %v", ErrValidation, core.ErrDefaultCategory)
	}
	return s.repo.DeleteCategory(ctx, owner, name)
}

func (s *TaxonomyService) Payers(ctx context.Context, owner string) ([]core.Payer, error) {
	return s.repo.ListPayers(ctx, owner)
}

func (s *TaxonomyService) CreatePayer(ctx context.Context, p core.Payer) (core.Payer, error) {
	if err := p.Validate(); err != nil {
		return core.Payer{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p.Name = strings.TrimSpace(p.Name)
	return s.repo.CreatePayer(ctx, p)
}

func (s *TaxonomyService) DeletePayer(ctx context.Context, owner string, id int64) error {
	return s.repo.DeletePayer(ctx, owner, id)
}
