package usecase

import (
	"context"
	"strings"

	"github.com/phenrril/elegante/internal/domain"
)

// DefaultRelatedLimit is how many related products are returned when the
// caller does not ask for a specific number.
const DefaultRelatedLimit = 4

type ProductUC struct {
	Products domain.ProductRepo
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) Get(ctx context.Context, id int) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, id)
}

func (uc *ProductUC) Related(ctx context.Context, id, limit int) ([]domain.Product, error) {
	return uc.Products.Related(ctx, id, limit)
}

// Search matches q against names and descriptions. The query must hold at
// least two characters once trimmed, but is matched as given.
func (uc *ProductUC) Search(ctx context.Context, q string) ([]domain.Product, error) {
	if len([]rune(strings.TrimSpace(q))) < 2 {
		return nil, &domain.ValidationError{Message: "Search query must be at least 2 characters"}
	}
	return uc.Products.List(ctx, domain.ProductFilter{Search: q})
}

func (uc *ProductUC) Create(ctx context.Context, np domain.NewProduct) (*domain.Product, error) {
	if err := check(np); err != nil {
		return nil, err
	}
	return uc.Products.Create(ctx, np)
}

func (uc *ProductUC) Update(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	if err := check(patch); err != nil {
		return nil, err
	}
	return uc.Products.Update(ctx, id, patch)
}

func (uc *ProductUC) Delete(ctx context.Context, id int) error {
	return uc.Products.Delete(ctx, id)
}
