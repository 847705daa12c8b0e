package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/elegante/internal/cart"
	"github.com/phenrril/elegante/internal/domain"
)

// TaxRate is the flat tax applied to the cart subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// CheckoutUC drives the simulated checkout. Shipping is always free and no
// payment is taken.
type CheckoutUC struct {
	Now func() time.Time
}

func (uc *CheckoutUC) Summary(c *cart.Engine) domain.OrderSummary {
	subtotal := c.TotalDecimal()
	taxes := subtotal.Mul(TaxRate)
	total := subtotal.Add(taxes)
	return domain.OrderSummary{
		ItemCount: c.Count(),
		Subtotal:  subtotal.Round(2).InexactFloat64(),
		Shipping:  0,
		Taxes:     taxes.Round(2).InexactFloat64(),
		Total:     total.Round(2).InexactFloat64(),
	}
}

// Next moves forward one step. Leaving the cart review needs a non-empty cart.
func (uc *CheckoutUC) Next(step domain.CheckoutStep, c *cart.Engine) (domain.CheckoutStep, error) {
	if step == domain.StepCartReview && len(c.Items()) == 0 {
		return step, domain.ErrEmptyCart
	}
	return step.Next()
}

func (uc *CheckoutUC) Back(step domain.CheckoutStep) (domain.CheckoutStep, error) {
	return step.Back()
}

// Place confirms the order from the payment step and empties the cart.
func (uc *CheckoutUC) Place(step domain.CheckoutStep, c *cart.Engine) (*domain.OrderConfirmation, error) {
	if step != domain.StepPayment {
		return nil, domain.ErrInvalidCheckoutStep
	}
	if len(c.Items()) == 0 {
		return nil, domain.ErrEmptyCart
	}
	conf := &domain.OrderConfirmation{
		Reference: uuid.New(),
		Summary:   uc.Summary(c),
		PlacedAt:  uc.now(),
	}
	if err := c.Clear(); err != nil {
		return nil, err
	}
	log.Info().Str("reference", conf.Reference.String()).Float64("total", conf.Summary.Total).Msg("order placed")
	return conf, nil
}

func (uc *CheckoutUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}
