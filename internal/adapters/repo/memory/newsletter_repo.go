package memory

import (
	"context"

	"github.com/phenrril/elegante/internal/domain"
)

type NewsletterRepo struct{ s *Store }

func NewNewsletterRepo(s *Store) *NewsletterRepo { return &NewsletterRepo{s: s} }

// Add stores email as given. The duplicate check and insert happen under one
// lock, so concurrent subscribers with the same address cannot both succeed.
func (r *NewsletterRepo) Add(_ context.Context, email string) (*domain.NewsletterSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.subscribedLocked(email) {
		return nil, domain.ErrDuplicateSubscription
	}
	sub := domain.NewsletterSubscription{
		ID:        r.s.nextSubscriptionID,
		Email:     email,
		CreatedAt: r.s.tick(),
	}
	r.s.nextSubscriptionID++
	r.s.subscriptions[sub.ID] = sub
	return &sub, nil
}

func (r *NewsletterRepo) IsSubscribed(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.subscribedLocked(email), nil
}

func (r *NewsletterRepo) subscribedLocked(email string) bool {
	e := normalizeEmail(email)
	for _, sub := range r.s.subscriptions {
		if normalizeEmail(sub.Email) == e {
			return true
		}
	}
	return false
}

func (r *NewsletterRepo) List(_ context.Context) ([]domain.NewsletterSubscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]domain.NewsletterSubscription, 0, len(r.s.subscriptions))
	for _, id := range sortedIDs(r.s.subscriptions) {
		list = append(list, r.s.subscriptions[id])
	}
	return list, nil
}
