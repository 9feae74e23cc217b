package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
	"github.com/noah-isme/campus-companion-api/pkg/response"
)

const (
	// DeviceHeader identifies the installation that owns a personal timetable.
	DeviceHeader = "X-Device-ID"
	// ContextDeviceKey is the gin context key storing the device id.
	ContextDeviceKey = "deviceID"
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Device requires a well formed X-Device-ID header and stores it on the context.
func Device() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(DeviceHeader))
		if id == "" {
			response.Error(c, appErrors.ErrDeviceRequired)
			c.Abort()
			return
		}
		if !deviceIDPattern.MatchString(id) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "X-Device-ID must be 1-128 characters of letters, digits or ._:-"))
			c.Abort()
			return
		}
		c.Set(ContextDeviceKey, id)
		c.Next()
	}
}

// DeviceID returns the device id stored by Device, or "" when absent.
func DeviceID(c *gin.Context) string {
	if v, exists := c.Get(ContextDeviceKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
