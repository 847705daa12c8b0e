package memory

import (
	"context"

	"github.com/phenrril/elegante/internal/domain"
)

type ContactRepo struct{ s *Store }

func NewContactRepo(s *Store) *ContactRepo { return &ContactRepo{s: s} }

func (r *ContactRepo) Submit(_ context.Context, f domain.NewContactForm) (*domain.ContactForm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cf := domain.ContactForm{
		ID:        r.s.nextContactFormID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     cloneString(f.Phone),
		Subject:   f.Subject,
		Message:   f.Message,
		CreatedAt: r.s.tick(),
	}
	r.s.nextContactFormID++
	r.s.contactForms[cf.ID] = cf
	out := cloneContact(cf)
	return &out, nil
}

func (r *ContactRepo) List(_ context.Context) ([]domain.ContactForm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]domain.ContactForm, 0, len(r.s.contactForms))
	for _, id := range sortedIDs(r.s.contactForms) {
		list = append(list, cloneContact(r.s.contactForms[id]))
	}
	return list, nil
}

func (r *ContactRepo) MarkRead(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cf, ok := r.s.contactForms[id]
	if !ok {
		return domain.ErrNotFound
	}
	cf.IsRead = true
	r.s.contactForms[id] = cf
	return nil
}

func cloneContact(cf domain.ContactForm) domain.ContactForm {
	cf.Phone = cloneString(cf.Phone)
	return cf
}
