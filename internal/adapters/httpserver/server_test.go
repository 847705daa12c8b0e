package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/elegante/internal/adapters/export/xlsx"
	"github.com/phenrril/elegante/internal/adapters/repo/memory"
	"github.com/phenrril/elegante/internal/cart"
	"github.com/phenrril/elegante/internal/domain"
	"github.com/phenrril/elegante/internal/query"
	"github.com/phenrril/elegante/internal/usecase"
)

type testEnv struct {
	srv    *httptest.Server
	client *http.Client
}

func strPtr(s string) *string { return &s }

// testDeps seeds four products and two collections into a fresh store.
func testDeps(t *testing.T, opts ...func(*Deps)) Deps {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepo(store)
	collections := memory.NewCollectionRepo(store)

	for _, np := range []domain.NewProduct{
		{Name: "Silk Saree", Description: "Banarasi silk", Price: 5000, ImageURL: "/1.jpg", Category: "women", Collection: strPtr("festive"), IsBestseller: true},
		{Name: "Cotton Kurta", Description: "Everyday cotton", Price: 1200, ImageURL: "/2.jpg", Category: "men", AvailableSizes: []string{"M", "L"}},
		{Name: "Linen Shirt", Description: "Breathable linen", Price: 1800, ImageURL: "/3.jpg", Category: "men", Collection: strPtr("summer"), IsFeatured: true},
		{Name: "Nehru Jacket", Description: "Festive layer", Price: 900, ImageURL: "/4.jpg", Category: "men", Collection: strPtr("festive")},
	} {
		_, err := products.Create(ctx, np)
		require.NoError(t, err)
	}
	inactive := false
	for _, nc := range []domain.NewCollection{
		{Name: "Festive", Slug: "festive", Description: "Celebrations", ImageURL: "/f.jpg", IsSeasonal: true},
		{Name: "Archive", Slug: "archive", Description: "Past seasons", ImageURL: "/a.jpg", IsActive: &inactive},
	} {
		_, err := collections.Create(ctx, nc)
		require.NoError(t, err)
	}

	d := Deps{
		Products:    &usecase.ProductUC{Products: products},
		Collections: &usecase.CollectionUC{Collections: collections},
		Newsletter:  &usecase.NewsletterUC{Subscriptions: memory.NewNewsletterRepo(store)},
		Contact:     &usecase.ContactUC{Forms: memory.NewContactRepo(store)},
		Checkout:    &usecase.CheckoutUC{},
		Query:       query.Translator{Strict: true},
		SessionKey:  []byte("test-session-key"),
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	srv := httptest.NewServer(New(testDeps(t, opts...)))
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestListProducts_CategorySortedByPrice(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/products?category=men&sort=price-low-high", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]domain.Product](t, body)
	require.NotEmpty(t, list)
	for i, p := range list {
		assert.Equal(t, "men", p.Category)
		if i > 0 {
			assert.LessOrEqual(t, list[i-1].Price, p.Price)
		}
	}
}

func TestListProducts_StrictRejectsMalformedQuery(t *testing.T) {
	e := newTestEnv(t)

	for _, q := range []string{"featured=1", "minPrice=abc", "sort=cheapest", "limit=-1"} {
		resp, body := e.do(t, http.MethodGet, "/api/products?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Contains(t, decode[message](t, body).Message, "invalid query parameter", q)
	}
}

func TestListProducts_Permissive(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) { d.Query = query.Translator{} })

	resp, body := e.do(t, http.MethodGet, "/api/products?featured=1&minPrice=abc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.Product](t, body)
	assert.Len(t, list, 3, "featured=1 reads as false and the bad price is ignored")
}

func TestGetProduct(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/products/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cotton Kurta", decode[domain.Product](t, body).Name)

	resp, body = e.do(t, http.MethodGet, "/api/products/999999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", decode[message](t, body).Message)

	resp, body = e.do(t, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid product ID", decode[message](t, body).Message)
}

func TestRelatedProducts(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/products/related/4?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.Product](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID, "bestseller first")

	resp, body = e.do(t, http.MethodGet, "/api/products/related/404", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]domain.Product](t, body))

	resp, _ = e.do(t, http.MethodGet, "/api/products/related/x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchProducts(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/products/search/a", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search query must be at least 2 characters", decode[message](t, body).Message)

	resp, body = e.do(t, http.MethodGet, "/api/products/search/LINEN", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.Product](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "Linen Shirt", list[0].Name)
}

func TestCollections(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/collections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.Collection](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "festive", list[0].Slug)

	resp, _ = e.do(t, http.MethodGet, "/api/collections/festive", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/api/collections/winter", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Collection not found", decode[message](t, body).Message)
}

func TestNewsletter(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/newsletter", map[string]string{"email": "meera@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[struct {
		Message      string                        `json:"message"`
		Subscription domain.NewsletterSubscription `json:"subscription"`
	}](t, body)
	assert.Equal(t, "Subscription successful", created.Message)
	assert.Equal(t, "meera@example.com", created.Subscription.Email)

	resp, body = e.do(t, http.MethodPost, "/api/newsletter", map[string]string{"email": "Meera@Example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is already subscribed", decode[message](t, body).Message)

	resp, body = e.do(t, http.MethodPost, "/api/newsletter", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	invalid := decode[message](t, body)
	assert.Equal(t, "Invalid input", invalid.Message)
	require.Len(t, invalid.Errors, 1)
	assert.Equal(t, "email", invalid.Errors[0].Field)

	resp, _ = e.do(t, http.MethodGet, "/api/newsletter", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestContact(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "Kabir", "email": "kabir@example.com", "subject": "Custom order", "message": "Do you tailor sherwanis?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Form submitted successfully", decode[message](t, body).Message)

	resp, body = e.do(t, http.MethodPost, "/api/contact", map[string]string{"name": "K"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[message](t, body).Errors)
}

func TestCart(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "quantity": 2, "size": "M"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "size": "L"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = e.do(t, http.MethodGet, "/api/cart", nil)
	v := decode[cartView](t, body)
	require.Len(t, v.Items, 3)
	assert.Equal(t, 4, v.Count)
	assert.Equal(t, 1200.0*3+5000, v.Total)

	_, body = e.do(t, http.MethodPatch, "/api/cart/items/2", map[string]any{"quantity": 5, "size": "L"})
	v = decode[cartView](t, body)
	assert.Equal(t, 8, v.Count)

	_, body = e.do(t, http.MethodDelete, "/api/cart/items/2?size=M", nil)
	v = decode[cartView](t, body)
	require.Len(t, v.Items, 2)

	_, body = e.do(t, http.MethodDelete, "/api/cart/items/2", nil)
	v = decode[cartView](t, body)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 5000.0, v.Total)

	resp, _ = e.do(t, http.MethodPatch, "/api/cart/items/3", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = e.do(t, http.MethodDelete, "/api/cart", nil)
	assert.Empty(t, decode[cartView](t, body).Items)
	_, body = e.do(t, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[cartView](t, body).Items)
}

func TestCart_TamperedCookieYieldsEmptyCart(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	u, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	cookies := e.client.Jar.Cookies(u)
	require.NotEmpty(t, cookies)
	for _, c := range cookies {
		if c.Name == cart.StorageKey {
			c.Value = "AAAA" + c.Value[4:]
		}
	}
	e.client.Jar.SetCookies(u, cookies)

	_, body := e.do(t, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[cartView](t, body).Items)
}

func TestCheckoutFlow(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPost, "/api/checkout/next", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cart is empty", decode[message](t, body).Message)

	e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "quantity": 1})

	_, body = e.do(t, http.MethodGet, "/api/checkout", nil)
	v := decode[map[string]any](t, body)
	assert.Equal(t, "cart_review", v["step"])
	summary := v["summary"].(map[string]any)
	assert.Equal(t, 1200.0, summary["subtotal"])
	assert.Equal(t, 216.0, summary["taxes"])
	assert.Equal(t, 1416.0, summary["total"])

	_, body = e.do(t, http.MethodPost, "/api/checkout/next", nil)
	assert.Equal(t, "shipping_info", decode[map[string]any](t, body)["step"])
	_, body = e.do(t, http.MethodPost, "/api/checkout/next", nil)
	assert.Equal(t, "payment", decode[map[string]any](t, body)["step"])
	_, body = e.do(t, http.MethodPost, "/api/checkout/back", nil)
	assert.Equal(t, "shipping_info", decode[map[string]any](t, body)["step"])

	resp, _ = e.do(t, http.MethodPost, "/api/checkout/place", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "cannot place before payment")

	e.do(t, http.MethodPost, "/api/checkout/next", nil)
	resp, body = e.do(t, http.MethodPost, "/api/checkout/place", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	placed := decode[map[string]any](t, body)
	assert.Equal(t, "confirmation", placed["step"])
	order := placed["order"].(map[string]any)
	assert.NotEmpty(t, order["reference"])

	_, body = e.do(t, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[cartView](t, body).Items)
}

func TestAdmin_KeyRequiredWhenConfigured(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) { d.AdminKey = "s3cret" })
	np := map[string]any{"name": "Dupatta", "description": "Chiffon", "price": 700, "imageUrl": "/d.jpg", "category": "women"}

	resp, _ := e.do(t, http.MethodPost, "/api/admin/products", np)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/admin/products", np, "X-Admin-Key", "s3cret")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, 5, decode[domain.Product](t, body).ID)
}

func TestAdmin_ProductAndCollectionCRUD(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPut, "/api/admin/products/2", map[string]any{"price": 1100})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[domain.Product](t, body)
	assert.Equal(t, 1100.0, p.Price)
	assert.Equal(t, "Cotton Kurta", p.Name)

	resp, _ = e.do(t, http.MethodDelete, "/api/admin/products/2", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/api/products/2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = e.do(t, http.MethodDelete, "/api/admin/products/2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid input", decode[message](t, body).Message)

	resp, body = e.do(t, http.MethodGet, "/api/admin/collections?active=false", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.Collection](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "archive", list[0].Slug)

	resp, _ = e.do(t, http.MethodGet, "/api/admin/collections?active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, "/api/admin/collections", map[string]any{"name": "Bridal", "slug": "bridal", "description": "Wedding", "imageUrl": "/b.jpg"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	c := decode[domain.Collection](t, body)
	assert.True(t, c.IsActive)

	resp, _ = e.do(t, http.MethodPut, "/api/admin/collections/2", map[string]any{"isActive": true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = e.do(t, http.MethodGet, "/api/collections", nil)
	assert.Len(t, decode[[]domain.Collection](t, body), 3)

	resp, _ = e.do(t, http.MethodDelete, "/api/admin/collections/"+"1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdmin_ContactAndNewsletter(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodPost, "/api/newsletter", map[string]string{"email": "a@example.com"})
	e.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "Kabir", "email": "kabir@example.com", "subject": "Custom order", "message": "Do you tailor sherwanis?",
	})

	_, body := e.do(t, http.MethodGet, "/api/admin/newsletter", nil)
	assert.Len(t, decode[[]domain.NewsletterSubscription](t, body), 1)

	resp, _ := e.do(t, http.MethodPost, "/api/admin/contact/1/read", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/api/admin/contact/9/read", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = e.do(t, http.MethodGet, "/api/admin/contact", nil)
	forms := decode[[]domain.ContactForm](t, body)
	require.Len(t, forms, 1)
	assert.True(t, forms[0].IsRead)
}

func TestAdmin_Export(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodGet, "/api/admin/export.xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsx.ContentType, resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx is a zip archive")
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	e.do(t, http.MethodGet, "/api/products", nil)
	resp, body := e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `elegante_http_requests_total{method="GET",route="/api/products",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) {
		d.RateLimitRPS = 0.001
		d.RateLimitBurst = 1
	})

	resp, _ := e.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := e.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too Many Requests", decode[message](t, body).Message)

	resp, _ = e.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "only /api routes are limited")
}

func TestRecovery(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), RequestID, Recovery)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode[message](t, rec.Body.Bytes()).Message)
}

func TestUnknownAPIRoute(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "Not found"))
}

func TestCart_RejectsQuantityBelowOne(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, req := range []struct {
		method, path string
		body         map[string]any
	}{
		{http.MethodPatch, "/api/cart/items/2", map[string]any{"quantity": -5}},
		{http.MethodPatch, "/api/cart/items/2", map[string]any{"quantity": 0}},
		{http.MethodPatch, "/api/cart/items/2", map[string]any{"quantity": 0, "size": ""}},
		{http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "quantity": -2}},
		{http.MethodPost, "/api/cart/items", map[string]any{"productId": 2, "quantity": 0}},
	} {
		resp, body := e.do(t, req.method, req.path, req.body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %v", req.method, req.body)
		m := decode[message](t, body)
		require.Len(t, m.Errors, 1)
		assert.Equal(t, "quantity", m.Errors[0].Field)
		assert.Equal(t, "min", m.Errors[0].Rule)
	}

	_, body := e.do(t, http.MethodGet, "/api/cart", nil)
	v := decode[cartView](t, body)
	assert.Equal(t, 1, v.Count)
	assert.Equal(t, 1200.0, v.Total)

	e.do(t, http.MethodPost, "/api/checkout/next", nil)
	e.do(t, http.MethodPost, "/api/checkout/next", nil)
	resp, body = e.do(t, http.MethodPost, "/api/checkout/place", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	order := decode[map[string]any](t, body)["order"].(map[string]any)
	assert.Equal(t, 1416.0, order["summary"].(map[string]any)["total"])
}

func TestCart_HoldsManyProducts(t *testing.T) {
	e := newTestEnv(t)
	long := strings.Repeat("Hand embroidered with zari and sequins. ", 10)
	for i := 0; i < 40; i++ {
		resp, body := e.do(t, http.MethodPost, "/api/admin/products", map[string]any{
			"name": fmt.Sprintf("Lehenga %d", i), "description": long, "price": 2500, "imageUrl": "/l.jpg",
			"category": "women", "availableSizes": []string{"S", "M", "L"}, "availableColors": []string{"Red", "Gold"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		id := decode[domain.Product](t, body).ID
		resp, body = e.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": id, "size": "M", "color": "Red"})
		require.Equal(t, http.StatusOK, resp.StatusCode, "product %d: %s", id, body)
	}

	_, body := e.do(t, http.MethodGet, "/api/cart", nil)
	v := decode[cartView](t, body)
	assert.Len(t, v.Items, 40)
	assert.Equal(t, 40*2500.0, v.Total)

	u, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	var session *http.Cookie
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == cart.StorageKey {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Less(t, len(session.Value), 200, "the cookie only carries the session id")
	payload, err := signer{key: []byte("test-session-key")}.verify(session.Value)
	require.NoError(t, err)
	_, err = uuid.ParseBytes(payload)
	assert.NoError(t, err)
}

func TestCart_SessionsAreSeparate(t *testing.T) {
	a := newTestEnv(t)
	resp, _ := a.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	b := &testEnv{srv: a.srv, client: &http.Client{Jar: jar}}
	_, body := b.do(t, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[cartView](t, body).Items)

	_, body = a.do(t, http.MethodGet, "/api/cart", nil)
	assert.Len(t, decode[cartView](t, body).Items, 1)
}

func TestSessionCarts_SweepsIdleSlots(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	carts := newSessionCarts(24 * time.Hour)
	carts.now = func() time.Time { return now }

	carts.put("idle", []byte("[]"))
	carts.put("active", []byte("[]"))
	now = now.Add(20 * time.Hour)
	assert.NotNil(t, carts.get("active"))

	now = now.Add(5 * time.Hour)
	carts.put("new", []byte("[]"))
	assert.Equal(t, 2, carts.size())
	assert.Nil(t, carts.get("idle"))
	assert.NotNil(t, carts.get("active"))
}

func TestWriteError_CartTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("save cart: %w", cartTooLargeError{size: maxCartBytes + 1})
	writeError(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", nil), err, failCart)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Cart is too large", decode[message](t, rec.Body.Bytes()).Message)
}

func TestRecovery_PanicIsLoggedAndCounted(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	s := newServer(testDeps(t))
	s.mux.HandleFunc("/api/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := s.handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), `"message":"panic recovered"`)
	assert.Contains(t, logs.String(), `"status":500`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `elegante_http_requests_total{method="GET",route="/api/boom",status="500"} 1`)
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) {
		d.RateLimitRPS = 0.001
		d.RateLimitBurst = 1
	})

	resp, _ := e.do(t, http.MethodGet, "/api/products", nil, "X-Forwarded-For", "203.0.113.1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/api/products", nil, "X-Forwarded-For", "203.0.113.2")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimit_TrustProxyUsesLastForwardedEntry(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) {
		d.RateLimitRPS = 0.001
		d.RateLimitBurst = 1
		d.TrustProxy = true
	})

	resp, _ := e.do(t, http.MethodGet, "/api/products", nil, "X-Forwarded-For", "198.51.100.9, 203.0.113.1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/api/products", nil, "X-Forwarded-For", "198.51.100.9, 203.0.113.2")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "another client behind the proxy")
	resp, _ = e.do(t, http.MethodGet, "/api/products", nil, "X-Forwarded-For", "192.0.2.77, 203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "a rotated client supplied entry does not reset the bucket")
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name  string
		xff   []string
		trust bool
		want  string
	}{
		{"connection address", nil, false, "192.0.2.10"},
		{"header ignored", []string{"203.0.113.1"}, false, "192.0.2.10"},
		{"single entry", []string{"203.0.113.1"}, true, "203.0.113.1"},
		{"last of list", []string{"198.51.100.9, 203.0.113.1"}, true, "203.0.113.1"},
		{"last header line", []string{"198.51.100.9", "203.0.113.5"}, true, "203.0.113.5"},
		{"empty entry falls back", []string{"203.0.113.1, "}, true, "192.0.2.10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			r.RemoteAddr = "192.0.2.10:5555"
			for _, v := range tc.xff {
				r.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tc.want, clientIP(r, tc.trust))
		})
	}
}
