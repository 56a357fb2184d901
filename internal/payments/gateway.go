package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is a gateway order the brand pays against.
type Order struct {
	Ref        string  `json:"order_ref"`
	PaymentURL string  `json:"payment_url,omitempty"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

type Refund struct {
	Ref    string  `json:"refund_ref"`
	Amount float64 `json:"amount"`
}

// Gateway is the external payment provider. Calls must never run inside a store transaction.
type Gateway interface {
	CreateOrder(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (*Order, error)
	VerifyWebhookSignature(body []byte, signature string) bool
	Refund(ctx context.Context, chargeRef string, amount float64) (*Refund, error)
}

// Sign returns hex(HMAC-SHA256(secret, body)).
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func VerifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

const defaultGatewayTimeout = 15 * time.Second

// callGateway runs fn until it returns or the bounded ctx is done. The client
// call keeps running after a timeout and its result is dropped.
func callGateway[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := fn()
		done <- result{value: value, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// toSubunits converts a decimal amount into the gateway's smallest currency unit.
func toSubunits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromSubunits(amount int64) float64 {
	return float64(amount) / 100
}
