package domain

import (
	"context"
	"time"
)

type NewsletterSubscription struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewSubscription struct {
	Email string `json:"email" validate:"required,email"`
}

type ContactForm struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
}

// NewContactForm uses the same length rules as the storefront contact page.
type NewContactForm struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Subject string  `json:"subject" validate:"required,min=5"`
	Message string  `json:"message" validate:"required,min=10"`
}

type NewsletterRepo interface {
	Add(ctx context.Context, email string) (*NewsletterSubscription, error)
	IsSubscribed(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]NewsletterSubscription, error)
}

type ContactRepo interface {
	Submit(ctx context.Context, f NewContactForm) (*ContactForm, error)
	List(ctx context.Context) ([]ContactForm, error)
	MarkRead(ctx context.Context, id int) error
}
