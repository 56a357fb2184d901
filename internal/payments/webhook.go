package payments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/utils/response"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body)).
const SignatureHeader = "X-Webhook-Signature"

const maxWebhookBody = 1 << 20

type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	OrderRef  string  `json:"order_ref"`
	ChargeRef string  `json:"charge_ref"`
	Method    string  `json:"method"`
	Reason    string  `json:"reason"`
	RefundRef string  `json:"refund_ref"`
	Amount    float64 `json:"amount"`
}

type WebhookHandler struct {
	gateway    Gateway
	reconciler *Reconciler
	log        *logger.Logger
}

func NewWebhookHandler(gateway Gateway, reconciler *Reconciler) *WebhookHandler {
	return &WebhookHandler{gateway: gateway, reconciler: reconciler, log: logger.GetDefault()}
}

// HandleWebhook handles POST /api/v1/webhooks/payments.
// Once the signature checks out the gateway always gets 200; processing
// failures are logged and repaired by redelivery.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.RespondError(c, apperrors.Validation("unreadable request body"))
		return
	}

	if !h.gateway.VerifyWebhookSignature(body, c.GetHeader(SignatureHeader)) {
		h.log.LogWebhookRejected(ctx, "invalid signature", c.ClientIP())
		response.RespondJSON(c, "error", http.StatusBadRequest, "invalid webhook signature", nil, gin.H{
			"code": apperrors.KindUnauthorized,
		})
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.log.LogWebhookFailure(ctx, "unparseable", "", err)
		response.RespondJSON(c, "success", http.StatusOK, "webhook received", nil, nil)
		return
	}

	if err := h.dispatch(ctx, event); err != nil {
		h.log.LogWebhookFailure(ctx, event.Event, reference(event.Payload), err)
	}
	response.RespondJSON(c, "success", http.StatusOK, "webhook received", nil, nil)
}

func (h *WebhookHandler) dispatch(ctx context.Context, event WebhookEvent) error {
	p := event.Payload
	switch event.Event {
	case EventPaymentCaptured:
		return h.reconciler.HandleCaptured(ctx, p.OrderRef, p.ChargeRef, p.Method)
	case EventPaymentFailed:
		return h.reconciler.HandleFailed(ctx, p.OrderRef, p.Reason)
	case EventRefundProcessed:
		return h.reconciler.HandleRefund(ctx, p.ChargeRef, p.RefundRef, p.Amount)
	default:
		h.log.DebugWithContext(ctx, "Ignoring webhook event", map[string]interface{}{"event": event.Event})
		return nil
	}
}

func reference(p WebhookPayload) string {
	if p.OrderRef != "" {
		return p.OrderRef
	}
	return p.ChargeRef
}
