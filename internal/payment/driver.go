package payment

import (
	"context"
	"errors"
)

var ErrSignatureMismatch = errors.New("signature mismatch")

// PayRequest describes a checkout for a single order.
type PayRequest struct {
	OrderID   string
	Amount    float64
	Subject   string
	NotifyURL string
	ReturnURL string
	Channel   string
}

// Notification is a verified gateway callback.
type Notification struct {
	OrderID    string
	ExternalID string
	Amount     string
	Paid       bool
}

// Driver is implemented by every payment gateway integration.
type Driver interface {
	Name() string

	// Pay returns the URL the buyer is redirected to.
	Pay(ctx context.Context, req PayRequest) (string, error)

	// Notify verifies callback parameters. It returns ErrSignatureMismatch
	// when the signature does not match.
	Notify(params map[string]string) (Notification, error)
}
