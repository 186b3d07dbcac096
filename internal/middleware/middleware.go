package middleware

import (
	"net/http"
	"strings"

	"tugasku/internal/config"
	"tugasku/pkg/logger"
	"tugasku/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// HeaderDeviceID mirrors the wire-contract constant for server-side use.
const HeaderDeviceID = models.HeaderDeviceID

const ctxDeviceKey = "device_id"

// DeviceAuth resolves the caller's device identifier and stores it on the
// gin context. Identity comes from the device-id header, or, when
// JWT_SECRET is configured and a Bearer token is presented, from the
// token's subject claim (the signed-token upgrade path).
func DeviceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if auth := c.GetHeader("Authorization"); auth != "" {
			const prefix = "Bearer "
			secret := config.Get().JWTSecret
			if secret != "" && strings.HasPrefix(auth, prefix) {
				tokenStr := strings.TrimSpace(auth[len(prefix):])
				claims := &jwt.RegisteredClaims{}
				_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
					return []byte(secret), nil
				})
				if err != nil || claims.Subject == "" {
					logger.Debug(ctx, "Device token parse failed", "error", err)
					c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid device token"})
					c.Abort()
					return
				}
				c.Set(ctxDeviceKey, claims.Subject)
				c.Request = c.Request.WithContext(logger.WithDeviceID(ctx, claims.Subject))
				c.Next()
				return
			}
		}

		id := strings.TrimSpace(c.GetHeader(HeaderDeviceID))
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Device ID missing"})
			c.Abort()
			return
		}
		c.Set(ctxDeviceKey, id)
		c.Request = c.Request.WithContext(logger.WithDeviceID(ctx, id))
		c.Next()
	}
}

// DeviceID returns the device identifier resolved by DeviceAuth.
func DeviceID(c *gin.Context) string {
	v, _ := c.Get(ctxDeviceKey)
	id, _ := v.(string)
	return id
}

// RequestLogger logs one line per request with method, path and device.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug(c.Request.Context(), "Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"device", c.GetHeader(HeaderDeviceID))
	}
}
