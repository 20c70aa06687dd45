package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Jay330-commits/IXTABOX-APP-sub002/controllers"
	"github.com/Jay330-commits/IXTABOX-APP-sub002/middleware"
)

func RegisterRoutes(r *gin.Engine, bc *controllers.BookingController) {
	// Stripe webhook (no auth, signature-verified)
	r.POST("/webhooks/stripe", bc.StripeWebhook)

	bookings := r.Group("/bookings")
	bookings.Use(middleware.OptionalAuth())
	bookings.POST("/confirm", bc.ConfirmPayment)
	bookings.GET("/status/:payment_intent_id", middleware.RateLimitMiddleware(), bc.PaymentStatus)
}
