package domain

import (
	"context"
	"time"
)

// User mirrors the original account schema. Nothing enforces IsAdmin.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewUser struct {
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
}
