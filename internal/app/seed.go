package app

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/elegante/internal/domain"
)

//go:embed seed/catalog.json
var seedFS embed.FS

type seedData struct {
	Products    []domain.NewProduct    `json:"products"`
	Collections []domain.NewCollection `json:"collections"`
	Users       []domain.NewUser       `json:"users"`
}

// Seed loads the starter catalog: products, collections and the admin
// account. The first seeded user is made administrator.
func (a *App) Seed(ctx context.Context) error {
	raw, err := seedFS.ReadFile("seed/catalog.json")
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	for _, np := range data.Products {
		if _, err := a.ProductUC.Create(ctx, np); err != nil {
			return fmt.Errorf("seed product %q: %w", np.Name, err)
		}
	}
	for _, nc := range data.Collections {
		if _, err := a.CollectionUC.Create(ctx, nc); err != nil {
			return fmt.Errorf("seed collection %q: %w", nc.Slug, err)
		}
	}
	for i, nu := range data.Users {
		u, err := a.Users.Create(ctx, nu)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", nu.Username, err)
		}
		if i == 0 {
			if err := a.Users.SetAdmin(ctx, u.ID, true); err != nil {
				return err
			}
		}
	}
	log.Info().
		Int("products", len(data.Products)).
		Int("collections", len(data.Collections)).
		Int("users", len(data.Users)).
		Msg("catalog seeded")
	return nil
}
