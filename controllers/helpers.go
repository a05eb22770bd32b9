package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/services"
)

// respondError logs the underlying cause and writes the service error as
// JSON. Upstream error detail is sanitized in production mode; validation
// errors pass through unchanged since they carry no internal state.
func respondError(c *gin.Context, logger *zap.Logger, production bool, serr *services.ServiceError) {
	if serr.Err != nil {
		logger.Warn(serr.Message,
			zap.String("code", serr.Code),
			zap.Error(serr.Err),
		)
	}

	msg := serr.Message
	if production && serr.StatusCode >= http.StatusInternalServerError {
		msg = "Internal server error"
	}

	c.JSON(serr.StatusCode, gin.H{"error": msg, "code": serr.Code})
}
