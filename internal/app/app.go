package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/phenrril/elegante/internal/adapters/export/xlsx"
	"github.com/phenrril/elegante/internal/adapters/httpserver"
	"github.com/phenrril/elegante/internal/adapters/repo/memory"
	"github.com/phenrril/elegante/internal/config"
	"github.com/phenrril/elegante/internal/domain"
	"github.com/phenrril/elegante/internal/query"
	"github.com/phenrril/elegante/internal/usecase"
)

type App struct {
	Config config.Config
	Store  *memory.Store

	ProductUC    *usecase.ProductUC
	CollectionUC *usecase.CollectionUC
	NewsletterUC *usecase.NewsletterUC
	ContactUC    *usecase.ContactUC
	CheckoutUC   *usecase.CheckoutUC
	Users        *memory.UserRepo
}

func NewApp(cfg config.Config) *App {
	store := memory.NewStore()
	return &App{
		Config:       cfg,
		Store:        store,
		ProductUC:    &usecase.ProductUC{Products: memory.NewProductRepo(store)},
		CollectionUC: &usecase.CollectionUC{Collections: memory.NewCollectionRepo(store)},
		NewsletterUC: &usecase.NewsletterUC{Subscriptions: memory.NewNewsletterRepo(store)},
		ContactUC:    &usecase.ContactUC{Forms: memory.NewContactRepo(store)},
		CheckoutUC:   &usecase.CheckoutUC{},
		Users:        memory.NewUserRepo(store),
	}
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Products:       a.ProductUC,
		Collections:    a.CollectionUC,
		Newsletter:     a.NewsletterUC,
		Contact:        a.ContactUC,
		Checkout:       a.CheckoutUC,
		Query:          query.Translator{Strict: !a.Config.QueryPermissive},
		SessionKey:     []byte(a.Config.SessionKey),
		AdminKey:       a.Config.AdminKey,
		SecureCookie:   a.Config.IsProduction(),
		RateLimitRPS:   a.Config.RateLimitRPS,
		RateLimitBurst: a.Config.RateLimitBurst,
		TrustProxy:     a.Config.TrustProxy,
	})
}

// ExportCatalog writes every product and collection as an xlsx workbook.
func (a *App) ExportCatalog(ctx context.Context, w io.Writer) error {
	products, err := a.ProductUC.List(ctx, domain.ProductFilter{})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	collections, err := a.CollectionUC.List(ctx, domain.CollectionFilter{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	return xlsx.WriteCatalog(w, products, collections)
}
