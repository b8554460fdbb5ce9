package handler

import (
	"encoding/json"
	"io"
	"net/http"

	orderapp "github.com/batterydepartment/backend/internal/application/order"
	"github.com/batterydepartment/backend/internal/infrastructure/payment"
	"github.com/batterydepartment/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// Stripe webhook payloads are small; cap reads to keep a hostile caller
// from streaming an unbounded body.
const maxWebhookPayloadSize = 65536

// StripeWebhookHandler receives payment events from Stripe. The route is
// unauthenticated; the signature header is the authentication.
type StripeWebhookHandler struct {
	BaseHandler
	stripeService *payment.StripeService
	orderService  *orderapp.OrderService
	logger        *zap.Logger
}

// NewStripeWebhookHandler creates a StripeWebhookHandler
func NewStripeWebhookHandler(stripeService *payment.StripeService, orderService *orderapp.OrderService, logger *zap.Logger) *StripeWebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeWebhookHandler{
		stripeService: stripeService,
		orderService:  orderService,
		logger:        logger,
	}
}

// HandleWebhook verifies and dispatches a Stripe event
func (h *StripeWebhookHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadLarge, "Payload too large")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeInvalidWebhook, "Missing Stripe-Signature header")
		return
	}

	event, err := h.stripeService.VerifyWebhook(payload, signature)
	if err != nil {
		h.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeInvalidWebhook, "Invalid webhook signature")
		return
	}

	if err := h.processEvent(c, event); err != nil {
		h.logger.Error("Failed to process Stripe event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		// Non-2xx makes Stripe retry the delivery
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true, "event_id": event.ID})
}

func (h *StripeWebhookHandler) processEvent(c *gin.Context, event stripe.Event) error {
	ctx := c.Request.Context()

	switch event.Type {
	case "payment_intent.succeeded":
		intent, err := parsePaymentIntent(event)
		if err != nil {
			return err
		}
		_, err = h.orderService.ConfirmPayment(ctx, intent.ID)
		return err

	case "payment_intent.payment_failed", "payment_intent.canceled":
		intent, err := parsePaymentIntent(event)
		if err != nil {
			return err
		}
		reason := ""
		if intent.LastPaymentError != nil {
			reason = intent.LastPaymentError.Msg
		}
		return h.orderService.FailPayment(ctx, intent.ID, reason)

	default:
		h.logger.Debug("Ignoring Stripe event", zap.String("event_type", string(event.Type)))
		return nil
	}
}

func parsePaymentIntent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// RegisterRoutes registers the webhook route
func (h *StripeWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleWebhook)
}
