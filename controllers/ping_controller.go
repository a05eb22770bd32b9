package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/services"
)

// PingController proxies keep-alive health pings to this service and its
// companion.
type PingController struct {
	KeepAlive *services.KeepAlive
	Logger    *zap.Logger
}

// PingActivity pings this service's own health endpoint.
func (pc *PingController) PingActivity(c *gin.Context) {
	pc.ping(c, pc.KeepAlive.SelfURL())
}

// PingCompanion pings the configured companion service.
func (pc *PingController) PingCompanion(c *gin.Context) {
	pc.ping(c, pc.KeepAlive.CompanionURL())
}

func (pc *PingController) ping(c *gin.Context, baseURL string) {
	if baseURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Ping target not configured"})
		return
	}

	health, err := pc.KeepAlive.Ping(c.Request.Context(), baseURL)
	if err != nil {
		pc.Logger.Warn("Ping failed", zap.String("url", baseURL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Ping failed"})
		return
	}

	resp := gin.H{"success": true}
	for k, v := range health {
		if k != "success" {
			resp[k] = v
		}
	}
	c.JSON(http.StatusOK, resp)
}
