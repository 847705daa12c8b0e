// Package memory holds the catalog in process memory. Contents are lost on
// restart.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phenrril/elegante/internal/domain"
)

// Store is the shared state behind the memory repos. Every repo operation
// holds the lock for its whole duration, so operations never interleave.
type Store struct {
	mu sync.RWMutex

	products      map[int]domain.Product
	collections   map[int]domain.Collection
	subscriptions map[int]domain.NewsletterSubscription
	contactForms  map[int]domain.ContactForm
	users         map[int]domain.User

	nextProductID      int
	nextCollectionID   int
	nextSubscriptionID int
	nextContactFormID  int
	nextUserID         int

	now  func() time.Time
	last time.Time
}

func NewStore() *Store {
	return &Store{
		products:           map[int]domain.Product{},
		collections:        map[int]domain.Collection{},
		subscriptions:      map[int]domain.NewsletterSubscription{},
		contactForms:       map[int]domain.ContactForm{},
		users:              map[int]domain.User{},
		nextProductID:      1,
		nextCollectionID:   1,
		nextSubscriptionID: 1,
		nextContactFormID:  1,
		nextUserID:         1,
		now:                time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// tick returns a timestamp strictly after the previous one so createdAt and
// updatedAt always advance. Callers hold the write lock.
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneProduct(p domain.Product) domain.Product {
	p.LongDescription = cloneString(p.LongDescription)
	p.SubCategory = cloneString(p.SubCategory)
	p.Collection = cloneString(p.Collection)
	p.DiscountPercentage = cloneInt(p.DiscountPercentage)
	p.Gallery = cloneStrings(p.Gallery)
	p.AvailableSizes = cloneStrings(p.AvailableSizes)
	p.AvailableColors = cloneStrings(p.AvailableColors)
	return p
}
