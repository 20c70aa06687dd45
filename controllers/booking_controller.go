package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/apperrors"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/middleware"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/models"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/services"
)

type BookingController struct {
	Gateway  services.PaymentGateway
	Bookings services.BookingService
	Logger   *zap.Logger
}

type confirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	Email           string `json:"email"`
}

type bookingResponse struct {
	ID        string     `json:"id"`
	BoxID     string     `json:"box_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    string     `json:"status"`
	LockPIN   string     `json:"lock_pin,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ConfirmPayment is the client-initiated confirmation call made right after
// the checkout redirect, so the browser does not have to wait for webhook
// latency. It shares the idempotent pipeline with the webhook: whichever
// arrives first materializes the booking, the other gets created=false.
func (bc *BookingController) ConfirmPayment(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pi, err := bc.Gateway.RetrievePaymentIntent(req.PaymentIntentID)
	if err != nil {
		bc.Logger.Warn("PaymentIntent lookup failed",
			zap.String("payment_intent_id", req.PaymentIntentID),
			zap.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	if err := bc.Gateway.VerifySucceeded(pi); err != nil {
		bc.respondAppError(c, err)
		return
	}

	sessionUserID := middleware.GetSessionUserID(c)
	booking, created, err := bc.Bookings.ProcessVerifiedPayment(c.Request.Context(), pi, sessionUserID, req.Email)
	if err != nil {
		bc.respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": toBookingResponse(booking),
		"created": created,
	})
}

// PaymentStatus is the read-only poll target. The frontend polls a bounded
// number of times and falls back to ConfirmPayment if the webhook has not
// materialized a booking yet.
func (bc *BookingController) PaymentStatus(c *gin.Context) {
	stripeID := c.Param("payment_intent_id")

	payment, booking, err := bc.Bookings.PaymentState(c.Request.Context(), stripeID)
	if err != nil {
		bc.respondAppError(c, err)
		return
	}

	resp := gin.H{"payment_status": payment.Status}
	if booking != nil {
		resp["booking"] = toBookingResponse(booking)
	}
	c.JSON(http.StatusOK, resp)
}

func toBookingResponse(b *models.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID.String(),
		BoxID:     b.BoxID.String(),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		LockPIN:   b.LockPIN,
		CreatedAt: b.CreatedAt,
	}
}

func (bc *BookingController) respondAppError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	bc.Logger.Error("Unhandled error in booking controller", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
