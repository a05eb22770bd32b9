package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/models"
	"github.com/AlexObbs/shopp/services"
)

// CheckoutController handles booking checkout creation and verification.
type CheckoutController struct {
	Service    services.CheckoutService
	Logger     *zap.Logger
	Production bool
}

// CreateCheckoutSession creates a hosted checkout session for a booking.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req models.BookingCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, serr := cc.Service.CreateBookingCheckout(c.Request.Context(), &req)
	if serr != nil {
		respondError(c, cc.Logger, cc.Production, serr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPayment reconciles a checkout session by its id.
func (cc *CheckoutController) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required", "code": services.CodeMissingSessionID})
		return
	}

	outcome, serr := cc.Service.VerifyBookingPayment(c.Request.Context(), req.SessionID)
	if serr != nil {
		respondError(c, cc.Logger, cc.Production, serr)
		return
	}

	c.JSON(http.StatusOK, outcome)
}
