package domain

import (
	"context"
	"time"
)

type Collection struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	BannerURL   *string   `json:"bannerUrl"`
	IsSeasonal  bool      `json:"isSeasonal"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type NewCollection struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required,slug"`
	Description string  `json:"description" validate:"required"`
	ImageURL    string  `json:"imageUrl" validate:"required"`
	BannerURL   *string `json:"bannerUrl"`
	IsSeasonal  bool    `json:"isSeasonal"`
	// nil defaults to active.
	IsActive *bool `json:"isActive"`
}

// CollectionPatch leaves the slug out: slugs are immutable once assigned.
type CollectionPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	BannerURL   *string `json:"bannerUrl"`
	IsSeasonal  *bool   `json:"isSeasonal"`
	IsActive    *bool   `json:"isActive"`
}

func (cp CollectionPatch) Apply(c *Collection) {
	if cp.Name != nil {
		c.Name = *cp.Name
	}
	if cp.Description != nil {
		c.Description = *cp.Description
	}
	if cp.ImageURL != nil {
		c.ImageURL = *cp.ImageURL
	}
	if cp.BannerURL != nil {
		c.BannerURL = cp.BannerURL
	}
	if cp.IsSeasonal != nil {
		c.IsSeasonal = *cp.IsSeasonal
	}
	if cp.IsActive != nil {
		c.IsActive = *cp.IsActive
	}
}

type CollectionFilter struct {
	Seasonal *bool
	Active   *bool
}

type CollectionRepo interface {
	List(ctx context.Context, f CollectionFilter) ([]Collection, error)
	FindBySlug(ctx context.Context, slug string) (*Collection, error)
	Create(ctx context.Context, c NewCollection) (*Collection, error)
	Update(ctx context.Context, id int, patch CollectionPatch) (*Collection, error)
	Delete(ctx context.Context, id int) error
}
