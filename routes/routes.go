package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexObbs/shopp/controllers"
)

// RegisterRoutes mounts the full HTTP surface. The webhook route reads the
// raw request body itself; all other endpoints bind parsed JSON.
func RegisterRoutes(
	r *gin.Engine,
	cc *controllers.CheckoutController,
	tc *controllers.TipController,
	pc *controllers.PingController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Payment service is running"})
	})

	r.POST("/create-checkout-session", cc.CreateCheckoutSession)
	r.POST("/verify-payment", cc.VerifyPayment)

	tip := r.Group("/api/tip")
	tip.POST("/create-checkout-session", tc.CreateCheckoutSession)
	tip.GET("/verify-checkout-session", tc.VerifyCheckoutSession)
	tip.POST("/webhook", tc.StripeWebhook)

	r.GET("/ping-activity", pc.PingActivity)
	r.GET("/ping-companion", pc.PingCompanion)
}
