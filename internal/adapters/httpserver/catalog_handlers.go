package httpserver

import (
	"net/http"
	"strings"

	"github.com/phenrril/elegante/internal/usecase"
)

var (
	failProducts   = failure{internal: "Failed to fetch products"}
	failProduct    = failure{notFound: "Product not found", internal: "Failed to fetch product"}
	failRelated    = failure{internal: "Failed to fetch related products"}
	failSearch     = failure{internal: "Failed to search products"}
	failCollection = failure{notFound: "Collection not found", internal: "Failed to fetch collection"}
)

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	f, err := s.query.ProductFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err, failProducts)
		return
	}
	list, err := s.products.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err, failProducts)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/api/products/"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, failProduct)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiRelatedProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/api/products/related/"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	limit, err := s.query.Limit(r.URL.Query().Get("limit"), usecase.DefaultRelatedLimit)
	if err != nil {
		writeError(w, r, err, failRelated)
		return
	}
	list, err := s.products.Related(r.Context(), id, limit)
	if err != nil {
		writeError(w, r, err, failRelated)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiSearchProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	list, err := s.products.Search(r.Context(), strings.TrimPrefix(r.URL.Path, "/api/products/search/"))
	if err != nil {
		writeError(w, r, err, failSearch)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiCollections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	list, err := s.collections.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err, failure{internal: "Failed to fetch collections"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) apiCollectionBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	c, err := s.collections.GetBySlug(r.Context(), strings.TrimPrefix(r.URL.Path, "/api/collections/"))
	if err != nil {
		writeError(w, r, err, failCollection)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
