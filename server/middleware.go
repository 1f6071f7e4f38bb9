package server

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns default CORS configuration
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Content-Transfer-Encoding", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}
}

// LoadCORSConfigFromEnv loads CORS configuration from environment variables
func LoadCORSConfigFromEnv() CORSConfig {
	config := DefaultCORSConfig()

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		config.AllowOrigins = strings.Split(origins, ",")
		for i, origin := range config.AllowOrigins {
			config.AllowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	if methods := os.Getenv("CORS_ALLOW_METHODS"); methods != "" {
		config.AllowMethods = strings.Split(methods, ",")
		for i, method := range config.AllowMethods {
			config.AllowMethods[i] = strings.TrimSpace(method)
		}
	}

	if os.Getenv("GIN_MODE") == "release" && len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*" {
		AppLogger.Warn("CORS is set to allow all origins in production mode. Consider setting CORS_ALLOW_ORIGINS environment variable.")
	}

	return config
}

// CORSMiddleware adds CORS headers to allow browser clients
func CORSMiddleware() gin.HandlerFunc {
	config := LoadCORSConfigFromEnv()

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			for _, allowedOrigin := range config.AllowOrigins {
				if allowedOrigin == origin || allowedOrigin == "*" {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowMethods, ", "))
		c.Writer.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowHeaders, ", "))
		c.Writer.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", config.MaxAge))

		if config.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const requestIDKey = "requestID"

// RequestIDMiddleware assigns every request an ID and echoes it back in the
// X-Request-ID header. An inbound X-Request-ID is kept so callers can
// correlate their own logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestID returns the request ID assigned by RequestIDMiddleware.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// LoggingMiddleware logs request details with structured format
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(startTime)
		statusCode := c.Writer.Status()

		logMsg := fmt.Sprintf(
			"%s %s | Status: %d | Duration: %v | IP: %s | User-Agent: %s",
			c.Request.Method,
			path,
			statusCode,
			duration,
			c.ClientIP(),
			c.Request.UserAgent(),
		)

		if query != "" {
			logMsg += fmt.Sprintf(" | Query: %s", query)
		}

		if len(c.Errors) > 0 {
			logMsg += fmt.Sprintf(" | Errors: %s", c.Errors.String())
		}

		logCtx := &LogContext{RequestID: RequestID(c)}
		switch {
		case statusCode >= 500:
			AppLogger.ErrorWithContext(logCtx, "%s", logMsg)
		case statusCode >= 400:
			AppLogger.WarnWithContext(logCtx, "%s", logMsg)
		default:
			AppLogger.InfoWithContext(logCtx, "%s", logMsg)
		}
	}
}

// RecoveryMiddleware recovers from panics and returns a 500 error. The
// panic detail stays in the server log; only a generic message crosses the
// boundary.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				AppLogger.ErrorWithFields("PANIC RECOVERED", map[string]interface{}{
					"error":     err,
					"requestId": RequestID(c),
					"stack":     string(debug.Stack()),
				})

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Message: "An unexpected error occurred. Please try again later.",
					Code:    http.StatusInternalServerError,
				})

				c.Abort()
			}
		}()

		c.Next()
	}
}

// SecurityHeadersMiddleware adds security-related HTTP headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if os.Getenv("GIN_MODE") == "release" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
