package domain

import (
	"context"
	"time"
)

type Product struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	LongDescription    *string   `json:"longDescription"`
	Price              float64   `json:"price"`
	ImageURL           string    `json:"imageUrl"`
	Gallery            []string  `json:"gallery"`
	Category           string    `json:"category"`
	SubCategory        *string   `json:"subCategory"`
	Collection         *string   `json:"collection"`
	IsNew              bool      `json:"isNew"`
	IsFeatured         bool      `json:"isFeatured"`
	IsBestseller       bool      `json:"isBestseller"`
	IsOnSale           bool      `json:"isOnSale"`
	DiscountPercentage *int      `json:"discountPercentage"`
	HasVariants        bool      `json:"hasVariants"`
	AvailableSizes     []string  `json:"availableSizes"`
	AvailableColors    []string  `json:"availableColors"`
	Stock              int       `json:"stock"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NewProduct is the payload accepted when creating a product. Server-assigned
// fields (id, timestamps) are not part of it.
type NewProduct struct {
	Name               string   `json:"name" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	LongDescription    *string  `json:"longDescription"`
	Price              float64  `json:"price" validate:"gte=0"`
	ImageURL           string   `json:"imageUrl" validate:"required"`
	Gallery            []string `json:"gallery"`
	Category           string   `json:"category" validate:"required"`
	SubCategory        *string  `json:"subCategory"`
	Collection         *string  `json:"collection"`
	IsNew              bool     `json:"isNew"`
	IsFeatured         bool     `json:"isFeatured"`
	IsBestseller       bool     `json:"isBestseller"`
	IsOnSale           bool     `json:"isOnSale"`
	DiscountPercentage *int     `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	HasVariants        bool     `json:"hasVariants"`
	AvailableSizes     []string `json:"availableSizes"`
	AvailableColors    []string `json:"availableColors"`
	Stock              int      `json:"stock" validate:"gte=0"`
}

// ProductPatch is a shallow partial update: nil fields keep their current value.
type ProductPatch struct {
	Name               *string   `json:"name" validate:"omitempty,min=1"`
	Description        *string   `json:"description"`
	LongDescription    *string   `json:"longDescription"`
	Price              *float64  `json:"price" validate:"omitempty,gte=0"`
	ImageURL           *string   `json:"imageUrl"`
	Gallery            *[]string `json:"gallery"`
	Category           *string   `json:"category"`
	SubCategory        *string   `json:"subCategory"`
	Collection         *string   `json:"collection"`
	IsNew              *bool     `json:"isNew"`
	IsFeatured         *bool     `json:"isFeatured"`
	IsBestseller       *bool     `json:"isBestseller"`
	IsOnSale           *bool     `json:"isOnSale"`
	DiscountPercentage *int      `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	HasVariants        *bool     `json:"hasVariants"`
	AvailableSizes     *[]string `json:"availableSizes"`
	AvailableColors    *[]string `json:"availableColors"`
	Stock              *int      `json:"stock" validate:"omitempty,gte=0"`
}

// Apply merges the set fields of the patch into p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.LongDescription != nil {
		p.LongDescription = pp.LongDescription
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.Gallery != nil {
		p.Gallery = *pp.Gallery
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.SubCategory != nil {
		p.SubCategory = pp.SubCategory
	}
	if pp.Collection != nil {
		p.Collection = pp.Collection
	}
	if pp.IsNew != nil {
		p.IsNew = *pp.IsNew
	}
	if pp.IsFeatured != nil {
		p.IsFeatured = *pp.IsFeatured
	}
	if pp.IsBestseller != nil {
		p.IsBestseller = *pp.IsBestseller
	}
	if pp.IsOnSale != nil {
		p.IsOnSale = *pp.IsOnSale
	}
	if pp.DiscountPercentage != nil {
		p.DiscountPercentage = pp.DiscountPercentage
	}
	if pp.HasVariants != nil {
		p.HasVariants = *pp.HasVariants
	}
	if pp.AvailableSizes != nil {
		p.AvailableSizes = *pp.AvailableSizes
	}
	if pp.AvailableColors != nil {
		p.AvailableColors = *pp.AvailableColors
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
}

type ProductSort string

const (
	SortNewest       ProductSort = "newest"
	SortPriceLowHigh ProductSort = "price-low-high"
	SortPriceHighLow ProductSort = "price-high-low"
	SortPopular      ProductSort = "popular"
)

// Valid reports whether s is one of the known sort orders.
func (s ProductSort) Valid() bool {
	switch s {
	case SortNewest, SortPriceLowHigh, SortPriceHighLow, SortPopular:
		return true
	}
	return false
}

// ProductFilter holds the product query options. Pointer fields distinguish
// "not given" (nil, no filtering) from an explicit value.
type ProductFilter struct {
	Category   string
	Collection string
	Search     string
	Featured   *bool
	New        *bool
	Bestseller *bool
	OnSale     *bool
	MinPrice   *int
	MaxPrice   *int
	Types      []string
	Colors     []string
	Sizes      []string
	Sort       ProductSort
	Limit      *int
	Offset     *int
}

type ProductRepo interface {
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	FindByID(ctx context.Context, id int) (*Product, error)
	Related(ctx context.Context, id int, limit int) ([]Product, error)
	Create(ctx context.Context, p NewProduct) (*Product, error)
	Update(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id int) error
}
