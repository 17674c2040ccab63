package service

import (
	"context"
	"encoding/json"
	"strings"

	"slawn/pkg/errors"
)

type CheckoutStatus string

const (
	CheckoutSuccess   CheckoutStatus = "success"
	CheckoutCancelled CheckoutStatus = "cancelled"
)

// CheckoutEvent is the terminal message relayed by the client once the
// payment window closes.
type CheckoutEvent struct {
	Status    CheckoutStatus `json:"status"`
	Reference string         `json:"reference,omitempty"`
}

// CheckoutParams configures the inline payment window.
type CheckoutParams struct {
	PublicKey string `json:"public_key"`
	Email     string `json:"email"`
	// Amount is in the currency's smallest unit.
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type PaymentGatewayService interface {
	NewCheckout(email string, price float64) CheckoutParams
	// Verify asks the gateway whether reference was actually paid, in full,
	// in currency. amount is in the currency's smallest unit. A gateway that
	// answers but disagrees yields a payment protocol error; any other error
	// means the gateway could not be asked.
	Verify(ctx context.Context, reference string, amount int64, currency string) error
}

// ParseCheckoutEvent accepts exactly two shapes: a success carrying a
// reference and a cancellation. Anything else is a protocol error.
func ParseCheckoutEvent(raw []byte) (*CheckoutEvent, error) {
	var event CheckoutEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, errors.PaymentProtocol("Unexpected response from payment window", err)
	}

	switch event.Status {
	case CheckoutSuccess:
		event.Reference = strings.TrimSpace(event.Reference)
		if event.Reference == "" {
			return nil, errors.PaymentProtocol("Payment succeeded without a reference", nil)
		}
		return &event, nil
	case CheckoutCancelled:
		return &event, nil
	}

	return nil, errors.PaymentProtocol("Unexpected response from payment window", nil)
}
