package httpserver

import (
	"net/http"
	"strings"

	"github.com/phenrril/elegante/internal/cart"
	"github.com/phenrril/elegante/internal/domain"
)

var failCart = failure{notFound: "Product not found", internal: "Failed to update cart"}

// The engine stores quantities as given, so the API keeps every line at 1 or more.
var errQuantityTooLow = domain.NewValidationError("quantity", "min", "must be at least 1")

type cartView struct {
	Items []cart.Item `json:"items"`
	Total float64     `json:"total"`
	Count int         `json:"count"`
}

func viewOf(c *cart.Engine) cartView {
	return cartView{Items: c.Items(), Total: c.Total(), Count: c.Count()}
}

// addItemRequest.Quantity defaults to 1 when omitted.
type addItemRequest struct {
	ProductID int    `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateItemRequest struct {
	Quantity *int    `json:"quantity"`
	Size     *string `json:"size"`
	Color    *string `json:"color"`
}

func (s *Server) apiCart(w http.ResponseWriter, r *http.Request) {
	c := s.cartFor(w, r)
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, viewOf(c))
	case http.MethodDelete:
		if err := c.Clear(); err != nil {
			writeError(w, r, err, failCart)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(c))
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

// apiCartItems adds a product snapshot to the cart.
func (s *Server) apiCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var in addItemRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, failCart)
		return
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty < 1 {
		writeError(w, r, errQuantityTooLow, failCart)
		return
	}
	p, err := s.products.Get(r.Context(), in.ProductID)
	if err != nil {
		writeError(w, r, err, failCart)
		return
	}
	c := s.cartFor(w, r)
	if err := c.Add(*p, qty, in.Size, in.Color); err != nil {
		writeError(w, r, err, failCart)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

// apiCartItem updates or removes lines of one product. Supplying a size or
// color narrows the change to that exact line.
func (s *Server) apiCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/api/cart/items/"))
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	switch r.Method {
	case http.MethodPatch:
		s.updateCartItem(w, r, id)
	case http.MethodDelete:
		s.removeCartItem(w, r, id)
	default:
		methodNotAllowed(w, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request, id int) {
	var in updateItemRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, failCart)
		return
	}
	if in.Quantity == nil {
		writeError(w, r, domain.NewValidationError("quantity", "required", "is required"), failCart)
		return
	}
	if *in.Quantity < 1 {
		writeError(w, r, errQuantityTooLow, failCart)
		return
	}
	c := s.cartFor(w, r)
	if !c.Has(id) {
		writeMessage(w, http.StatusNotFound, "Item not in cart")
		return
	}
	var err error
	if in.Size != nil || in.Color != nil {
		err = c.UpdateLineQuantity(lineKey(id, in.Size, in.Color), *in.Quantity)
	} else {
		err = c.UpdateQuantity(id, *in.Quantity)
	}
	if err != nil {
		writeError(w, r, err, failCart)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request, id int) {
	c := s.cartFor(w, r)
	q := r.URL.Query()
	var err error
	if q.Has("size") || q.Has("color") {
		size, color := q.Get("size"), q.Get("color")
		err = c.RemoveLine(lineKey(id, &size, &color))
	} else {
		err = c.Remove(id)
	}
	if err != nil {
		writeError(w, r, err, failCart)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func lineKey(id int, size, color *string) cart.Key {
	k := cart.Key{ProductID: id}
	if size != nil {
		k.Size = *size
	}
	if color != nil {
		k.Color = *color
	}
	return k
}
