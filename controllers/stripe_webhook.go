package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/apperrors"
)

// StripeWebhook receives and dispatches Stripe webhook events.
//
// Response contract: 4xx only for signature or mode failures (no state was
// touched), 2xx for every event the verifier could parse even when no
// booking side effect happened (stops upstream redelivery), 5xx only for
// storage failures that upstream should retry.
func (bc *BookingController) StripeWebhook(c *gin.Context) {
	event, err := bc.Gateway.ParseWebhook(c.Request)
	if err != nil {
		bc.Logger.Warn("Stripe webhook rejected", zap.Error(err))
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	bc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "payment_intent.succeeded":
		if !bc.handlePaymentSucceeded(c, event) {
			return
		}
	case "payment_intent.payment_failed":
		if !bc.handlePaymentFailed(c, event) {
			return
		}
	default:
		bc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// handlePaymentSucceeded returns false when it has already written an error
// response.
func (bc *BookingController) handlePaymentSucceeded(c *gin.Context, event stripe.Event) bool {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		bc.Logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		return true // malformed body, ack so Stripe stops resending
	}

	// Never trust the event body: re-confirm the charge with the gateway.
	fresh, err := bc.Gateway.RetrievePaymentIntent(pi.ID)
	if err != nil {
		bc.Logger.Error("PaymentIntent re-verification fetch failed",
			zap.String("payment_intent_id", pi.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return false
	}

	if err := bc.Gateway.VerifySucceeded(fresh); err != nil {
		// Acknowledge without side effects; the event claimed success the
		// gateway does not confirm.
		bc.Logger.Warn("Webhook success event not confirmed by gateway",
			zap.String("payment_intent_id", pi.ID),
			zap.String("gateway_status", string(fresh.Status)),
		)
		return true
	}

	_, created, err := bc.Bookings.ProcessVerifiedPayment(c.Request.Context(), fresh, nil, "")
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingContact) || errors.Is(err, apperrors.ErrIncompleteMetadata) {
			// Terminal for this payment; retrying the delivery cannot fix
			// it, so acknowledge. The failure is already logged loudly.
			return true
		}
		bc.Logger.Error("Webhook booking materialization failed",
			zap.String("payment_intent_id", pi.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return false
	}

	bc.Logger.Info("Webhook processed",
		zap.String("payment_intent_id", pi.ID),
		zap.Bool("booking_created", created),
	)
	return true
}

func (bc *BookingController) handlePaymentFailed(c *gin.Context, event stripe.Event) bool {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		bc.Logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		return true
	}

	if err := bc.Bookings.HandleFailedPayment(c.Request.Context(), pi.ID); err != nil {
		bc.Logger.Error("Failed to record payment failure",
			zap.String("payment_intent_id", pi.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return false
	}
	return true
}
