// Package middleware carries the request-scoped concerns: request IDs,
// structured request logging, and session extraction. Authentication itself
// happens upstream; the gateway forwards the verified identity as headers.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	requestIDKey = "requestID"
	userIDKey    = "userID"
	userRoleKey  = "userRole"

	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-Id"
	headerUserRole  = "X-User-Role"
)

// RequestID assigns every request a UUID, honoring one supplied upstream.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// Logger emits one structured line per request.
func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Info("request")
	}
}

// Session lifts the auth gateway's identity headers onto the request
// context. It never rejects; the role guards below do that per route.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(headerUserID); raw != "" {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				c.Set(userIDKey, id)
				c.Set(userRoleKey, c.GetHeader(headerUserRole))
			}
		}
		c.Next()
	}
}

// RequireSession rejects requests without any authenticated identity.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userIDKey); !ok {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose session role differs from role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userIDKey); !ok || c.GetString(userRoleKey) != role {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
}

// SessionUserID returns the authenticated user's id. The ok result is false
// on routes that skipped the guards.
func SessionUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

// SessionRole returns the session role, empty when unauthenticated.
func SessionRole(c *gin.Context) string {
	return c.GetString(userRoleKey)
}
