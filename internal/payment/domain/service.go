package domain

import (
	"context"
	"errors"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrFreeTierOrder    = errors.New("free_tier_needs_no_order")
)

type CreateOrderRequest struct {
	UserID string  `json:"user_id"`
	Tier   tier.ID `json:"tier"`
}

type CreateOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"` // smallest currency unit
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Tier     tier.ID `json:"tier"`
}

type VerifyRequest struct {
	UserID    string  `json:"user_id"`
	OrderID   string  `json:"razorpay_order_id"`
	PaymentID string  `json:"razorpay_payment_id"`
	Signature string  `json:"razorpay_signature"`
	Tier      tier.ID `json:"tier"`
}

type VerifyResponse struct {
	Tier   tier.ID `json:"tier"`
	Status string  `json:"status"`
}

// Service is the checkout flow: create a provider order for a paid
// tier, then verify the provider's signature and promote the
// subscription. Verification failure never touches the subscription.
type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyAndApply(ctx context.Context, req VerifyRequest) (*VerifyResponse, error)
}
