package domain

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutStep int

const (
	StepCartReview CheckoutStep = iota
	StepShippingInfo
	StepPayment
	StepConfirmation
)

func (s CheckoutStep) String() string {
	switch s {
	case StepCartReview:
		return "cart_review"
	case StepShippingInfo:
		return "shipping_info"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

func (s CheckoutStep) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Next returns the step after s. Confirmation is only reached by placing the order.
func (s CheckoutStep) Next() (CheckoutStep, error) {
	switch s {
	case StepCartReview:
		return StepShippingInfo, nil
	case StepShippingInfo:
		return StepPayment, nil
	}
	return s, ErrInvalidCheckoutStep
}

func (s CheckoutStep) Back() (CheckoutStep, error) {
	switch s {
	case StepShippingInfo:
		return StepCartReview, nil
	case StepPayment:
		return StepShippingInfo, nil
	}
	return s, ErrInvalidCheckoutStep
}

// OrderSummary amounts are in the catalog currency, rounded to two decimals.
type OrderSummary struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Taxes     float64 `json:"taxes"`
	Total     float64 `json:"total"`
}

// OrderConfirmation is what a simulated checkout returns; nothing is charged.
type OrderConfirmation struct {
	Reference uuid.UUID    `json:"reference"`
	Summary   OrderSummary `json:"summary"`
	PlacedAt  time.Time    `json:"placedAt"`
}
