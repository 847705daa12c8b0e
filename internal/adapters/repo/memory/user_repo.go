package memory

import (
	"context"
	"strings"

	"github.com/phenrril/elegante/internal/domain"
)

type UserRepo struct{ s *Store }

func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) FindByID(_ context.Context, id int) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	e := normalizeEmail(email)
	return r.find(func(u domain.User) bool { return normalizeEmail(u.Email) == e })
}

func (r *UserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range sortedIDs(r.s.users) {
		if u := r.s.users[id]; match(u) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create rejects a username or email already in use, ignoring case.
func (r *UserRepo) Create(_ context.Context, nu domain.NewUser) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e := normalizeEmail(nu.Email)
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, nu.Username) || normalizeEmail(u.Email) == e {
			return nil, domain.ErrDuplicateUser
		}
	}
	u := domain.User{
		ID:        r.s.nextUserID,
		Username:  nu.Username,
		Password:  nu.Password,
		Email:     nu.Email,
		FirstName: cloneString(nu.FirstName),
		LastName:  cloneString(nu.LastName),
		CreatedAt: r.s.tick(),
	}
	r.s.nextUserID++
	r.s.users[u.ID] = u
	out := cloneUser(u)
	return &out, nil
}

// SetAdmin flags an existing user as administrator. Used by the seed.
func (r *UserRepo) SetAdmin(_ context.Context, id int, admin bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsAdmin = admin
	r.s.users[id] = u
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.FirstName = cloneString(u.FirstName)
	u.LastName = cloneString(u.LastName)
	return u
}
