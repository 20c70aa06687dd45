package services

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/apperrors"
)

// PaymentGateway is the boundary to the payment processor. The pipeline
// never trusts an event body's status field: successful charges are always
// re-confirmed through RetrievePaymentIntent before any state mutation.
type PaymentGateway interface {
	ParseWebhook(r *http.Request) (stripe.Event, error)
	RetrievePaymentIntent(id string) (*stripe.PaymentIntent, error)
	VerifySucceeded(pi *stripe.PaymentIntent) error
}

type StripeGateway struct {
	webhookKey string
	liveMode   bool
	logger     *zap.Logger
}

func NewStripeGateway(secretKey, webhookKey string, liveMode bool, logger *zap.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookKey: webhookKey, liveMode: liveMode, logger: logger}
}

// ParseWebhook verifies the transport signature and the live/test mode flag.
// A mode mismatch is a hard rejection: it means test charges are being
// delivered to live credentials (or vice versa), which is an environment
// misconfiguration, not traffic to process.
func (g *StripeGateway) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, apperrors.Wrap(apperrors.ErrAuthentication, err)
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err = webhook.ConstructEvent(payload, sigHeader, g.webhookKey)
	if err != nil {
		return event, apperrors.Wrap(apperrors.ErrAuthentication, err)
	}

	if event.Livemode != g.liveMode {
		g.logger.Error("Webhook live/test mode mismatch, rejecting event",
			zap.String("event_id", event.ID),
			zap.Bool("event_livemode", event.Livemode),
			zap.Bool("server_livemode", g.liveMode),
		)
		return event, apperrors.ErrModeMismatch
	}

	return event, nil
}

func (g *StripeGateway) RetrievePaymentIntent(id string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}

// VerifySucceeded checks the authoritative PaymentIntent state fetched from
// the gateway, not the event body.
func (g *StripeGateway) VerifySucceeded(pi *stripe.PaymentIntent) error {
	if pi == nil || pi.Status != stripe.PaymentIntentStatusSucceeded || pi.Amount <= 0 {
		return apperrors.ErrNotVerified
	}
	return nil
}
