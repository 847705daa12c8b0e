package httpserver

import (
	"net/http"

	"github.com/phenrril/elegante/internal/cart"
	"github.com/phenrril/elegante/internal/query"
	"github.com/phenrril/elegante/internal/usecase"
)

// Deps is everything the server needs from the application layer.
type Deps struct {
	Products    *usecase.ProductUC
	Collections *usecase.CollectionUC
	Newsletter  *usecase.NewsletterUC
	Contact     *usecase.ContactUC
	Checkout    *usecase.CheckoutUC

	Query query.Translator

	// SessionKey signs the cart and checkout cookies.
	SessionKey []byte
	// AdminKey, when set, must be sent as X-Admin-Key on /api/admin routes.
	AdminKey     string
	SecureCookie bool

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxy keys the rate limiter on X-Forwarded-For. Enable it only
	// behind a proxy that sets that header.
	TrustProxy bool
}

type Server struct {
	mux         *http.ServeMux
	products    *usecase.ProductUC
	collections *usecase.CollectionUC
	newsletter  *usecase.NewsletterUC
	contact     *usecase.ContactUC
	checkout    *usecase.CheckoutUC
	query       query.Translator
	signer      signer
	carts       *sessionCarts
	adminKey    string
	secure      bool
	metrics     *metrics
	limit       Middleware
}

func New(d Deps) http.Handler {
	return newServer(d).handler()
}

func newServer(d Deps) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		products:    d.Products,
		collections: d.Collections,
		newsletter:  d.Newsletter,
		contact:     d.Contact,
		checkout:    d.Checkout,
		query:       d.Query,
		signer:      signer{key: d.SessionKey},
		carts:       newSessionCarts(sessionTTL),
		adminKey:    d.AdminKey,
		secure:      d.SecureCookie,
		metrics:     newMetrics(),
		limit:       RateLimit(d.RateLimitRPS, d.RateLimitBurst, d.TrustProxy),
	}
	s.routes()
	return s
}

// handler wraps the mux. Recovery sits inside Logging and the metrics so a
// recovered panic is still logged and counted as a 500.
func (s *Server) handler() http.Handler {
	return Chain(s.mux,
		RequestID,
		Logging,
		s.metrics.instrument(s.mux),
		Recovery,
		s.limit,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", s.metrics.handler())

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)
	s.mux.HandleFunc("/api/products/related/", s.apiRelatedProducts)
	s.mux.HandleFunc("/api/products/search/", s.apiSearchProducts)

	s.mux.HandleFunc("/api/collections", s.apiCollections)
	s.mux.HandleFunc("/api/collections/", s.apiCollectionBySlug)

	s.mux.HandleFunc("/api/newsletter", s.apiNewsletter)
	s.mux.HandleFunc("/api/contact", s.apiContact)

	s.mux.HandleFunc("/api/cart", s.apiCart)
	s.mux.HandleFunc("/api/cart/items", s.apiCartItems)
	s.mux.HandleFunc("/api/cart/items/", s.apiCartItem)

	s.mux.HandleFunc("/api/checkout", s.apiCheckout)
	s.mux.HandleFunc("/api/checkout/next", s.apiCheckoutNext)
	s.mux.HandleFunc("/api/checkout/back", s.apiCheckoutBack)
	s.mux.HandleFunc("/api/checkout/place", s.apiCheckoutPlace)

	s.mux.Handle("/api/admin/products", s.requireAdmin(s.adminProducts))
	s.mux.Handle("/api/admin/products/", s.requireAdmin(s.adminProductByID))
	s.mux.Handle("/api/admin/collections", s.requireAdmin(s.adminCollections))
	s.mux.Handle("/api/admin/collections/", s.requireAdmin(s.adminCollectionByID))
	s.mux.Handle("/api/admin/contact", s.requireAdmin(s.adminContact))
	s.mux.Handle("/api/admin/contact/", s.requireAdmin(s.adminContactRead))
	s.mux.Handle("/api/admin/newsletter", s.requireAdmin(s.adminNewsletter))
	s.mux.Handle("/api/admin/export.xlsx", s.requireAdmin(s.adminExport))

	s.mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// cartFor opens the cart of the request's session. The first mutation of a
// new session sets its cookie on w.
func (s *Server) cartFor(w http.ResponseWriter, r *http.Request) *cart.Engine {
	return cart.New(&sessionCart{w: w, r: r, signer: s.signer, secure: s.secure, carts: s.carts})
}
