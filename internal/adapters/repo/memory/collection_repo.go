package memory

import (
	"context"

	"github.com/phenrril/elegante/internal/domain"
)

type CollectionRepo struct{ s *Store }

func NewCollectionRepo(s *Store) *CollectionRepo { return &CollectionRepo{s: s} }

func (r *CollectionRepo) List(_ context.Context, f domain.CollectionFilter) ([]domain.Collection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := []domain.Collection{}
	for _, id := range sortedIDs(r.s.collections) {
		c := r.s.collections[id]
		if f.Seasonal != nil && c.IsSeasonal != *f.Seasonal {
			continue
		}
		if f.Active != nil && c.IsActive != *f.Active {
			continue
		}
		list = append(list, cloneCollection(c))
	}
	return list, nil
}

// FindBySlug returns the most recently created collection with slug.
func (r *CollectionRepo) FindBySlug(_ context.Context, slug string) (*domain.Collection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := sortedIDs(r.s.collections)
	for i := len(ids) - 1; i >= 0; i-- {
		c := r.s.collections[ids[i]]
		if c.Slug == slug {
			out := cloneCollection(c)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CollectionRepo) Create(_ context.Context, nc domain.NewCollection) (*domain.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := true
	if nc.IsActive != nil {
		active = *nc.IsActive
	}
	now := r.s.tick()
	c := domain.Collection{
		ID:          r.s.nextCollectionID,
		Name:        nc.Name,
		Slug:        nc.Slug,
		Description: nc.Description,
		ImageURL:    nc.ImageURL,
		BannerURL:   cloneString(nc.BannerURL),
		IsSeasonal:  nc.IsSeasonal,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.nextCollectionID++
	r.s.collections[c.ID] = c
	out := cloneCollection(c)
	return &out, nil
}

func (r *CollectionRepo) Update(_ context.Context, id int, patch domain.CollectionPatch) (*domain.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(&c)
	c = cloneCollection(c)
	c.UpdatedAt = r.s.tick()
	r.s.collections[id] = c
	out := cloneCollection(c)
	return &out, nil
}

func (r *CollectionRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.collections[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.collections, id)
	return nil
}

func cloneCollection(c domain.Collection) domain.Collection {
	c.BannerURL = cloneString(c.BannerURL)
	return c
}
