package httpserver

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/phenrril/elegante/internal/adapters/export/xlsx"
	"github.com/phenrril/elegante/internal/domain"
)

// requireAdmin guards admin routes with X-Admin-Key. Without a configured key
// the routes are open.
func (s *Server) requireAdmin(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey != "" && !secureCompare(r.Header.Get("X-Admin-Key"), s.adminKey) {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h(w, r)
	})
}

func (s *Server) adminProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	fail := failure{internal: "Failed to create product"}
	var in domain.NewProduct
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, fail)
		return
	}
	p, err := s.products.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, fail)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) adminProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/api/admin/products/"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		fail := failure{notFound: "Product not found", internal: "Failed to update product"}
		var patch domain.ProductPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, err, fail)
			return
		}
		p, err := s.products.Update(r.Context(), id, patch)
		if err != nil {
			writeError(w, r, err, fail)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if err := s.products.Delete(r.Context(), id); err != nil {
			writeError(w, r, err, failure{notFound: "Product not found", internal: "Failed to delete product"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) adminCollections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f, err := collectionFilter(r)
		if err != nil {
			writeError(w, r, err, failure{})
			return
		}
		list, err := s.collections.List(r.Context(), f)
		if err != nil {
			writeError(w, r, err, failure{internal: "Failed to fetch collections"})
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		fail := failure{internal: "Failed to create collection"}
		var in domain.NewCollection
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err, fail)
			return
		}
		c, err := s.collections.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err, fail)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func collectionFilter(r *http.Request) (domain.CollectionFilter, error) {
	var f domain.CollectionFilter
	q := r.URL.Query()
	for key, dst := range map[string]**bool{"seasonal": &f.Seasonal, "active": &f.Active} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.NewValidationError(key, "boolean", "must be true or false")
		}
		*dst = &b
	}
	return f, nil
}

func (s *Server) adminCollectionByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/api/admin/collections/"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		fail := failure{notFound: "Collection not found", internal: "Failed to update collection"}
		var patch domain.CollectionPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, err, fail)
			return
		}
		c, err := s.collections.Update(r.Context(), id, patch)
		if err != nil {
			writeError(w, r, err, fail)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := s.collections.Delete(r.Context(), id); err != nil {
			writeError(w, r, err, failure{notFound: "Collection not found", internal: "Failed to delete collection"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) adminContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	list, err := s.contact.List(r.Context())
	if err != nil {
		writeError(w, r, err, failure{internal: "Failed to fetch contact forms"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// adminContactRead handles POST /api/admin/contact/{id}/read.
func (s *Server) adminContactRead(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/contact/")
	idPart, action, _ := strings.Cut(rest, "/")
	if action != "read" {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	id, ok := pathID(idPart)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid contact form ID")
		return
	}
	if err := s.contact.MarkRead(r.Context(), id); err != nil {
		writeError(w, r, err, failure{notFound: "Contact form not found", internal: "Failed to update contact form"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminNewsletter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	list, err := s.newsletter.List(r.Context())
	if err != nil {
		writeError(w, r, err, failure{internal: "Failed to fetch subscriptions"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	fail := failure{internal: "Failed to export catalog"}
	products, err := s.products.List(r.Context(), domain.ProductFilter{})
	if err != nil {
		writeError(w, r, err, fail)
		return
	}
	collections, err := s.collections.List(r.Context(), domain.CollectionFilter{})
	if err != nil {
		writeError(w, r, err, fail)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteCatalog(&buf, products, collections); err != nil {
		writeError(w, r, err, fail)
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=catalog.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
