package usecase

import (
	"context"

	"github.com/phenrril/elegante/internal/domain"
)

type CollectionUC struct {
	Collections domain.CollectionRepo
}

// ListActive is what the storefront shows: inactive collections are hidden.
func (uc *CollectionUC) ListActive(ctx context.Context) ([]domain.Collection, error) {
	active := true
	return uc.Collections.List(ctx, domain.CollectionFilter{Active: &active})
}

func (uc *CollectionUC) List(ctx context.Context, f domain.CollectionFilter) ([]domain.Collection, error) {
	return uc.Collections.List(ctx, f)
}

func (uc *CollectionUC) GetBySlug(ctx context.Context, slug string) (*domain.Collection, error) {
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Collections.FindBySlug(ctx, slug)
}

func (uc *CollectionUC) Create(ctx context.Context, nc domain.NewCollection) (*domain.Collection, error) {
	if err := check(nc); err != nil {
		return nil, err
	}
	return uc.Collections.Create(ctx, nc)
}

func (uc *CollectionUC) Update(ctx context.Context, id int, patch domain.CollectionPatch) (*domain.Collection, error) {
	if err := check(patch); err != nil {
		return nil, err
	}
	return uc.Collections.Update(ctx, id, patch)
}

func (uc *CollectionUC) Delete(ctx context.Context, id int) error {
	return uc.Collections.Delete(ctx, id)
}
