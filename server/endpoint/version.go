package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/version"
)

var booted = time.Now()

// VersionResponse is the GET /version body.
type VersionResponse struct {
	Service string `json:"service"`
	version.Info
	Uptime string `json:"uptime"`
}

// Version reports the build identity and process uptime.
func Version(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, VersionResponse{
			Service: service,
			Info:    version.Get(),
			Uptime:  time.Since(booted).Truncate(time.Second).String(),
		})
	}
}
