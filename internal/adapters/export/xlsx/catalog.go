// Package xlsx writes the catalog as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/elegante/internal/domain"
)

const (
	ProductsSheet    = "Products"
	CollectionsSheet = "Collections"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var productHeader = []any{
	"id", "name", "category", "sub_category", "collection", "price", "discount_pct",
	"stock", "is_new", "is_featured", "is_bestseller", "is_on_sale", "sizes", "colors",
	"image_url", "created_at", "updated_at",
}

var collectionHeader = []any{
	"id", "name", "slug", "description", "is_seasonal", "is_active", "image_url", "banner_url", "created_at",
}

// WriteCatalog writes one header row plus one row per record on each sheet.
func WriteCatalog(w io.Writer, products []domain.Product, collections []domain.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CollectionsSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	if err := setRow(f, ProductsSheet, 1, productHeader); err != nil {
		return err
	}
	for i, p := range products {
		row := []any{
			p.ID, p.Name, p.Category, deref(p.SubCategory), deref(p.Collection), p.Price,
			discount(p.DiscountPercentage), p.Stock, p.IsNew, p.IsFeatured, p.IsBestseller, p.IsOnSale,
			strings.Join(p.AvailableSizes, ", "), strings.Join(p.AvailableColors, ", "),
			p.ImageURL, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
		}
		if err := setRow(f, ProductsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := setRow(f, CollectionsSheet, 1, collectionHeader); err != nil {
		return err
	}
	for i, c := range collections {
		row := []any{
			c.ID, c.Name, c.Slug, c.Description, c.IsSeasonal, c.IsActive, c.ImageURL,
			deref(c.BannerURL), c.CreatedAt.Format(time.RFC3339),
		}
		if err := setRow(f, CollectionsSheet, i+2, row); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func discount(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}
