package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/phenrril/elegante/internal/domain"
)

type ProductRepo struct{ s *Store }

func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

// List applies, in order: category, collection, search, the four flags, the
// price range, then the type/color/size facets. It then sorts and paginates.
func (r *ProductRepo) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]domain.Product, 0, len(r.s.products))
	for _, id := range sortedIDs(r.s.products) {
		p := r.s.products[id]
		if matches(p, f) {
			list = append(list, cloneProduct(p))
		}
	}
	sortProducts(list, f.Sort)
	return paginate(list, f.Offset, f.Limit), nil
}

func matches(p domain.Product, f domain.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Collection != "" && (p.Collection == nil || *p.Collection != f.Collection) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Featured != nil && p.IsFeatured != *f.Featured {
		return false
	}
	if f.New != nil && p.IsNew != *f.New {
		return false
	}
	if f.Bestseller != nil && p.IsBestseller != *f.Bestseller {
		return false
	}
	if f.OnSale != nil && p.IsOnSale != *f.OnSale {
		return false
	}
	if f.MinPrice != nil && p.Price < float64(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price > float64(*f.MaxPrice) {
		return false
	}
	if len(f.Types) > 0 && (p.SubCategory == nil || !containsFold(f.Types, *p.SubCategory)) {
		return false
	}
	if len(f.Colors) > 0 && !anyFold(p.AvailableColors, f.Colors) {
		return false
	}
	if len(f.Sizes) > 0 && !anyFold(p.AvailableSizes, f.Sizes) {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func anyFold(have, want []string) bool {
	for _, h := range have {
		if containsFold(want, h) {
			return true
		}
	}
	return false
}

// sortProducts sorts in place. Input is in id order and every sort is stable,
// so ties keep id order. An unknown sort key leaves the list untouched.
func sortProducts(list []domain.Product, by domain.ProductSort) {
	if by == "" {
		by = domain.SortNewest
	}
	switch by {
	case domain.SortNewest:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	case domain.SortPriceLowHigh:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	case domain.SortPriceHighLow:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price > list[j].Price })
	case domain.SortPopular:
		sortBestsellersFirst(list)
	}
}

func sortBestsellersFirst(list []domain.Product) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].IsBestseller && !list[j].IsBestseller })
}

// paginate drops offset items, then caps at limit. Negative values are ignored.
func paginate(list []domain.Product, offset, limit *int) []domain.Product {
	if offset != nil && *offset > 0 {
		if *offset >= len(list) {
			return []domain.Product{}
		}
		list = list[*offset:]
	}
	if limit != nil && *limit >= 0 && *limit < len(list) {
		list = list[:*limit]
	}
	return list
}

func (r *ProductRepo) FindByID(_ context.Context, id int) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := cloneProduct(p)
	return &c, nil
}

// Related returns products sharing the category or the collection of id,
// bestsellers first. An unknown id yields an empty list.
func (r *ProductRepo) Related(_ context.Context, id int, limit int) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := []domain.Product{}
	target, ok := r.s.products[id]
	if !ok {
		return list, nil
	}
	for _, pid := range sortedIDs(r.s.products) {
		if pid == id {
			continue
		}
		p := r.s.products[pid]
		if p.Category == target.Category || sameCollection(p.Collection, target.Collection) {
			list = append(list, cloneProduct(p))
		}
	}
	sortBestsellersFirst(list)
	if limit < 0 {
		limit = 0
	}
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// sameCollection treats two unset collections as equal.
func sameCollection(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *ProductRepo) Create(_ context.Context, np domain.NewProduct) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	p := domain.Product{
		ID:                 r.s.nextProductID,
		Name:               np.Name,
		Description:        np.Description,
		LongDescription:    np.LongDescription,
		Price:              np.Price,
		ImageURL:           np.ImageURL,
		Gallery:            np.Gallery,
		Category:           np.Category,
		SubCategory:        np.SubCategory,
		Collection:         np.Collection,
		IsNew:              np.IsNew,
		IsFeatured:         np.IsFeatured,
		IsBestseller:       np.IsBestseller,
		IsOnSale:           np.IsOnSale,
		DiscountPercentage: np.DiscountPercentage,
		HasVariants:        np.HasVariants,
		AvailableSizes:     np.AvailableSizes,
		AvailableColors:    np.AvailableColors,
		Stock:              np.Stock,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	p = cloneProduct(p)
	r.s.nextProductID++
	r.s.products[p.ID] = p
	out := cloneProduct(p)
	return &out, nil
}

func (r *ProductRepo) Update(_ context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(&p)
	p = cloneProduct(p)
	p.ID = id
	p.UpdatedAt = r.s.tick()
	r.s.products[id] = p
	out := cloneProduct(p)
	return &out, nil
}

func (r *ProductRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}
