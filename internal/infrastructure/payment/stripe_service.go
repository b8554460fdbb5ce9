package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/batterydepartment/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// PaymentStatus is the internal view of a Stripe payment intent status
type PaymentStatus string

const (
	PaymentStatusRequiresPayment PaymentStatus = "requires_payment_method"
	PaymentStatusRequiresAction  PaymentStatus = "requires_action"
	PaymentStatusProcessing      PaymentStatus = "processing"
	PaymentStatusSucceeded       PaymentStatus = "succeeded"
	PaymentStatusCanceled        PaymentStatus = "canceled"
)

// CreatePaymentIntentInput carries what Stripe needs to charge an order
type CreatePaymentIntentInput struct {
	OrderID       uuid.UUID
	OrderNumber   string
	Amount        valueobject.Money
	CustomerEmail string
	Metadata      map[string]string
}

// PaymentIntentOutput is the subset of a payment intent the application uses
type PaymentIntentOutput struct {
	PaymentIntentID string
	ClientSecret    string
	Status          PaymentStatus
	AmountCents     int64
	Currency        string
	CreatedAt       time.Time
}

// RefundOutput describes a completed refund
type RefundOutput struct {
	RefundID        string
	PaymentIntentID string
	AmountCents     int64
	Status          string
}

// StripeService handles one-time payments for storefront orders
type StripeService struct {
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(cfg config.StripeConfig, logger *zap.Logger) (*StripeService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}

	stripe.Key = cfg.SecretKey

	return &StripeService{
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}, nil
}

// CreatePaymentIntent creates a payment intent for an order.
// The amount is converted to the smallest currency unit (cents for USD).
func (s *StripeService) CreatePaymentIntent(ctx context.Context, input CreatePaymentIntentInput) (*PaymentIntentOutput, error) {
	s.logger.Debug("Creating Stripe payment intent",
		zap.String("order_id", input.OrderID.String()),
		zap.String("order_number", input.OrderNumber),
		zap.Int64("amount_cents", input.Amount.Cents()))

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(input.Amount.Cents()),
		Currency:     stripe.String(string(stripe.CurrencyUSD)),
		ReceiptEmail: stripe.String(input.CustomerEmail),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	params.Metadata = map[string]string{
		"order_id":     input.OrderID.String(),
		"order_number": input.OrderNumber,
	}
	for k, v := range input.Metadata {
		params.Metadata[k] = v
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		s.logger.Error("Failed to create Stripe payment intent",
			zap.String("order_id", input.OrderID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	s.logger.Info("Created Stripe payment intent",
		zap.String("order_id", input.OrderID.String()),
		zap.String("payment_intent_id", pi.ID))

	return toPaymentIntentOutput(pi), nil
}

// GetPaymentIntent retrieves a payment intent from Stripe
func (s *StripeService) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntentOutput, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		s.logger.Error("Failed to get Stripe payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get payment intent: %w", err)
	}

	return toPaymentIntentOutput(pi), nil
}

// CancelPaymentIntent voids an unpaid payment intent
func (s *StripeService) CancelPaymentIntent(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	if err != nil {
		s.logger.Error("Failed to cancel Stripe payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel payment intent: %w", err)
	}

	s.logger.Info("Canceled Stripe payment intent",
		zap.String("payment_intent_id", paymentIntentID))
	return nil
}

// RefundPayment refunds a captured payment. A zero amount refunds in full.
func (s *StripeService) RefundPayment(ctx context.Context, paymentIntentID string, amount valueobject.Money, reason string) (*RefundOutput, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	if amount.IsPositive() {
		params.Amount = stripe.Int64(amount.Cents())
	}
	if reason != "" {
		params.Metadata = map[string]string{"reason": reason}
	}

	ref, err := refund.New(params)
	if err != nil {
		s.logger.Error("Failed to refund Stripe payment",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to refund payment: %w", err)
	}

	s.logger.Info("Refunded Stripe payment",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("refund_id", ref.ID),
		zap.Int64("amount_cents", ref.Amount))

	return &RefundOutput{
		RefundID:        ref.ID,
		PaymentIntentID: paymentIntentID,
		AmountCents:     ref.Amount,
		Status:          string(ref.Status),
	}, nil
}

// VerifyWebhook verifies a webhook payload signature and returns the event.
// An invalid signature must be rejected: webhooks drive order payment state.
func (s *StripeService) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}
	return event, nil
}

func toPaymentIntentOutput(pi *stripe.PaymentIntent) *PaymentIntentOutput {
	return &PaymentIntentOutput{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Status:          mapPaymentIntentStatus(pi.Status),
		AmountCents:     pi.Amount,
		Currency:        string(pi.Currency),
		CreatedAt:       time.Unix(pi.Created, 0),
	}
}

func mapPaymentIntentStatus(status stripe.PaymentIntentStatus) PaymentStatus {
	switch status {
	case stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusRequiresConfirmation:
		return PaymentStatusRequiresPayment
	case stripe.PaymentIntentStatusRequiresAction:
		return PaymentStatusRequiresAction
	case stripe.PaymentIntentStatusProcessing:
		return PaymentStatusProcessing
	case stripe.PaymentIntentStatusSucceeded:
		return PaymentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return PaymentStatusCanceled
	default:
		return PaymentStatus(status)
	}
}
