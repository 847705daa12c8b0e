// Package cart keeps a shopping cart as a list of line items persisted to a
// single storage slot. Lines merge on product id, size and color.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/elegante/internal/domain"
)

// StorageKey names the slot a cart is persisted under.
const StorageKey = "elegante_cart"

// Storage is the slot a cart serializes into. Load returns no data and no
// error when nothing was saved yet.
type Storage interface {
	Load() ([]byte, error)
	Save([]byte) error
	Clear() error
}

// Key identifies a line. Empty Size or Color means none was chosen.
type Key struct {
	ProductID int
	Size      string
	Color     string
}

// Item is a product snapshot taken when it was added, plus the chosen options.
type Item struct {
	domain.Product
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
}

func (i Item) Key() Key { return Key{ProductID: i.ID, Size: i.Size, Color: i.Color} }

type Engine struct {
	storage Storage
	items   []Item
}

// New loads the cart from storage. Unreadable or corrupt data is discarded and
// the cart starts empty.
func New(storage Storage) *Engine {
	e := &Engine{storage: storage}
	b, err := storage.Load()
	if err != nil {
		log.Warn().Err(err).Str("key", StorageKey).Msg("cart load failed, starting empty")
		return e
	}
	if len(b) == 0 {
		return e
	}
	var items []Item
	if err := json.Unmarshal(b, &items); err != nil {
		log.Warn().Err(err).Str("key", StorageKey).Msg("cart parse failed, starting empty")
		return e
	}
	e.items = items
	return e
}

// Add merges quantity into the line matching (product, size, color) or
// appends a new one. A quantity below 1 counts as 1. Stock is not checked.
func (e *Engine) Add(p domain.Product, quantity int, size, color string) error {
	if quantity < 1 {
		quantity = 1
	}
	next := e.Items()
	k := Key{ProductID: p.ID, Size: size, Color: color}
	for i := range next {
		if next[i].Key() == k {
			next[i].Quantity += quantity
			return e.persist(next)
		}
	}
	return e.persist(append(next, Item{Product: p, Quantity: quantity, Size: size, Color: color}))
}

// Remove drops every line for productID, whatever its size or color.
func (e *Engine) Remove(productID int) error {
	next := make([]Item, 0, len(e.items))
	for _, it := range e.items {
		if it.ID != productID {
			next = append(next, it)
		}
	}
	return e.persist(next)
}

// RemoveLine drops only the line matching k.
func (e *Engine) RemoveLine(k Key) error {
	next := make([]Item, 0, len(e.items))
	for _, it := range e.items {
		if it.Key() != k {
			next = append(next, it)
		}
	}
	return e.persist(next)
}

// UpdateQuantity sets the quantity of the first line for productID. The value
// is stored as given.
func (e *Engine) UpdateQuantity(productID, quantity int) error {
	next := e.Items()
	for i := range next {
		if next[i].ID == productID {
			next[i].Quantity = quantity
			break
		}
	}
	return e.persist(next)
}

func (e *Engine) UpdateLineQuantity(k Key, quantity int) error {
	next := e.Items()
	for i := range next {
		if next[i].Key() == k {
			next[i].Quantity = quantity
			break
		}
	}
	return e.persist(next)
}

// Clear empties the cart and erases the slot.
func (e *Engine) Clear() error {
	if err := e.storage.Clear(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	e.items = nil
	return nil
}

// Items returns a copy of the lines in insertion order.
func (e *Engine) Items() []Item {
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// Has reports whether any line holds productID.
func (e *Engine) Has(productID int) bool {
	for _, it := range e.items {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// Total is the sum of price times quantity over all lines.
func (e *Engine) Total() float64 {
	return e.TotalDecimal().InexactFloat64()
}

func (e *Engine) TotalDecimal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range e.items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Count is the number of units across all lines.
func (e *Engine) Count() int {
	n := 0
	for _, it := range e.items {
		n += it.Quantity
	}
	return n
}

// persist writes next to storage and adopts it. On failure the cart keeps its
// previous contents.
func (e *Engine) persist(next []Item) error {
	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := e.storage.Save(b); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	e.items = next
	return nil
}
