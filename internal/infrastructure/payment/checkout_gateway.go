package payment

import (
	"context"

	orderapp "github.com/batterydepartment/backend/internal/application/order"
	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Ensure the gateway satisfies the checkout contract
var _ orderapp.PaymentGateway = (*CheckoutGateway)(nil)

// CheckoutGateway adapts the Stripe service to the checkout flow
type CheckoutGateway struct {
	stripe *StripeService
}

// NewCheckoutGateway creates a new checkout gateway over the Stripe service
func NewCheckoutGateway(stripe *StripeService) *CheckoutGateway {
	return &CheckoutGateway{stripe: stripe}
}

// CreatePaymentIntent opens a payment intent for an order total
func (g *CheckoutGateway) CreatePaymentIntent(ctx context.Context, orderID uuid.UUID, orderNumber string, amount valueobject.Money, customerEmail string) (*orderapp.PaymentIntent, error) {
	out, err := g.stripe.CreatePaymentIntent(ctx, CreatePaymentIntentInput{
		OrderID:       orderID,
		OrderNumber:   orderNumber,
		Amount:        amount,
		CustomerEmail: customerEmail,
	})
	if err != nil {
		return nil, err
	}
	return &orderapp.PaymentIntent{
		ID:           out.PaymentIntentID,
		ClientSecret: out.ClientSecret,
		Status:       string(out.Status),
	}, nil
}

// CancelPaymentIntent voids the open payment intent of a cancelled order
func (g *CheckoutGateway) CancelPaymentIntent(ctx context.Context, paymentIntentID string) error {
	return g.stripe.CancelPaymentIntent(ctx, paymentIntentID)
}
