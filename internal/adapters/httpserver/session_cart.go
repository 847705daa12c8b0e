package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/elegante/internal/cart"
)

const (
	sessionTTL = cookieMaxAge * time.Second
	// Upper bound for one serialized cart, well above a cart holding every
	// catalog product in several variants.
	maxCartBytes = 512 << 10
)

type cartTooLargeError struct{ size int }

func (e cartTooLargeError) Error() string {
	return fmt.Sprintf("cart is too large to store (%d bytes)", e.size)
}

func (e cartTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

type cartSlot struct {
	data []byte
	seen time.Time
}

// sessionCarts keeps serialized carts in memory keyed by session id. Slots
// idle for longer than ttl are dropped.
type sessionCarts struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	slots map[string]cartSlot
	swept time.Time
}

func newSessionCarts(ttl time.Duration) *sessionCarts {
	return &sessionCarts{ttl: ttl, now: time.Now, slots: map[string]cartSlot{}}
}

func (s *sessionCarts) get(id string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	slot, ok := s.slots[id]
	if !ok {
		return nil
	}
	slot.seen = now
	s.slots[id] = slot
	return slot.data
}

func (s *sessionCarts) put(id string, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.slots[id] = cartSlot{data: append([]byte(nil), b...), seen: now}
}

func (s *sessionCarts) drop(id string) {
	s.mu.Lock()
	delete(s.slots, id)
	s.mu.Unlock()
}

func (s *sessionCarts) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// sweepLocked runs at most once per hour.
func (s *sessionCarts) sweepLocked(now time.Time) {
	if now.Sub(s.swept) < time.Hour {
		return
	}
	for id, slot := range s.slots {
		if now.Sub(slot.seen) > s.ttl {
			delete(s.slots, id)
		}
	}
	s.swept = now
}

// sessionCart is a cart.Storage for one request. The cookie named after
// cart.StorageKey only carries the signed session id; the items live in carts.
type sessionCart struct {
	w      http.ResponseWriter
	r      *http.Request
	signer signer
	secure bool
	carts  *sessionCarts

	id string
}

var _ cart.Storage = (*sessionCart)(nil)

// sessionID returns the id from a validly signed cookie.
func (c *sessionCart) sessionID() (string, error) {
	if c.id != "" {
		return c.id, nil
	}
	ck, err := c.r.Cookie(cart.StorageKey)
	if err != nil {
		return "", err
	}
	payload, err := c.signer.verify(ck.Value)
	if err != nil {
		return "", err
	}
	id, err := uuid.ParseBytes(payload)
	if err != nil {
		return "", errBadSignature
	}
	c.id = id.String()
	return c.id, nil
}

func (c *sessionCart) Load() ([]byte, error) {
	id, err := c.sessionID()
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.carts.get(id), nil
}

func (c *sessionCart) Save(b []byte) error {
	if len(b) > maxCartBytes {
		return cartTooLargeError{size: len(b)}
	}
	id, err := c.sessionID()
	if err != nil {
		id = uuid.NewString()
		c.id = id
	}
	c.carts.put(id, b)
	c.setCookie(c.signer.sign([]byte(id)), cookieMaxAge)
	return nil
}

func (c *sessionCart) Clear() error {
	if id, err := c.sessionID(); err == nil {
		c.carts.drop(id)
	}
	c.setCookie("", -1)
	return nil
}

func (c *sessionCart) setCookie(value string, maxAge int) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     cart.StorageKey,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
