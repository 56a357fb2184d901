package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"

	"github.com/google/uuid"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

type omiseGateway struct {
	client        *omise.Client
	webhookSecret []byte
	timeout       time.Duration
}

// NewOmiseGateway creates orders as single-use payment links and refunds captured charges.
func NewOmiseGateway(cfg config.PaymentConfig) (Gateway, error) {
	client, err := omise.NewClient(cfg.PublicKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create omise client: %w", err)
	}
	client.SetDebug(false)

	return &omiseGateway{
		client:        client,
		webhookSecret: []byte(cfg.WebhookSecret),
		timeout:       cfg.Timeout,
	}, nil
}

func (g *omiseGateway) CreateOrder(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (*Order, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("order amount must be positive")
	}

	link, err := callGateway(ctx, g.timeout, func() (*omise.Link, error) {
		link := &omise.Link{}
		err := g.client.Do(link, &operations.CreateLink{
			Amount:      toSubunits(amount),
			Currency:    strings.ToLower(currency),
			Title:       "Advermo booking",
			Description: "booking " + bookingID.String(),
			Multiple:    false,
		})
		return link, err
	})
	if err != nil {
		return nil, apperrors.External(err, "payment gateway refused the order")
	}

	return &Order{
		Ref:        link.ID,
		PaymentURL: link.PaymentURI,
		Amount:     fromSubunits(link.Amount),
		Currency:   strings.ToUpper(link.Currency),
	}, nil
}

func (g *omiseGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifySignature(g.webhookSecret, body, signature)
}

func (g *omiseGateway) Refund(ctx context.Context, chargeRef string, amount float64) (*Refund, error) {
	if chargeRef == "" {
		return nil, apperrors.Validation("charge reference is required for a refund")
	}

	refund, err := callGateway(ctx, g.timeout, func() (*omise.Refund, error) {
		refund := &omise.Refund{}
		err := g.client.Do(refund, &operations.CreateRefund{
			ChargeID: chargeRef,
			Amount:   toSubunits(amount),
		})
		return refund, err
	})
	if err != nil {
		return nil, apperrors.External(err, "payment gateway refused the refund")
	}

	return &Refund{Ref: refund.ID, Amount: fromSubunits(refund.Amount)}, nil
}
