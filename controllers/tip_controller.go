package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/models"
	"github.com/AlexObbs/shopp/services"
)

// TipController handles tip checkout creation, verification and the
// processor webhook.
type TipController struct {
	Service    services.TipService
	Logger     *zap.Logger
	Production bool
}

// CreateCheckoutSession creates a hosted checkout session for a tip.
func (tc *TipController) CreateCheckoutSession(c *gin.Context) {
	var req models.TipCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, serr := tc.Service.CreateTipCheckout(c.Request.Context(), &req)
	if serr != nil {
		respondError(c, tc.Logger, tc.Production, serr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyCheckoutSession reconciles a tip session referenced by the
// session_id query parameter.
func (tc *TipController) VerifyCheckoutSession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "session_id query parameter is required",
		})
		return
	}

	resp, serr := tc.Service.VerifyTipPayment(c.Request.Context(), sessionID)
	if serr != nil {
		if serr.Err != nil {
			tc.Logger.Warn(serr.Message, zap.String("code", serr.Code), zap.Error(serr.Err))
		}
		msg := serr.Message
		if tc.Production && serr.StatusCode >= http.StatusInternalServerError {
			msg = "Internal server error"
		}
		c.JSON(serr.StatusCode, gin.H{"success": false, "error": msg, "code": serr.Code})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StripeWebhook receives signed processor events. The raw body is passed
// through untouched because signature verification requires the exact
// bytes.
func (tc *TipController) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if serr := tc.Service.HandleWebhook(c.Request.Context(), payload, sigHeader); serr != nil {
		respondError(c, tc.Logger, tc.Production, serr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
