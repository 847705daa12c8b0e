package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/elegante/internal/domain"
)

type NewsletterUC struct {
	Subscriptions domain.NewsletterRepo
}

// Subscribe validates the address and stores it. A second subscription for
// the same address, in any letter case, fails with ErrDuplicateSubscription.
func (uc *NewsletterUC) Subscribe(ctx context.Context, in domain.NewSubscription) (*domain.NewsletterSubscription, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}
	sub, err := uc.Subscriptions.Add(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	log.Info().Int("id", sub.ID).Msg("newsletter subscription")
	return sub, nil
}

func (uc *NewsletterUC) List(ctx context.Context) ([]domain.NewsletterSubscription, error) {
	return uc.Subscriptions.List(ctx)
}

type ContactUC struct {
	Forms domain.ContactRepo
}

func (uc *ContactUC) Submit(ctx context.Context, in domain.NewContactForm) (*domain.ContactForm, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	cf, err := uc.Forms.Submit(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Info().Int("id", cf.ID).Str("subject", cf.Subject).Msg("contact form received")
	return cf, nil
}

func (uc *ContactUC) List(ctx context.Context) ([]domain.ContactForm, error) {
	return uc.Forms.List(ctx)
}

func (uc *ContactUC) MarkRead(ctx context.Context, id int) error {
	return uc.Forms.MarkRead(ctx, id)
}
