package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printtrack/tracking-service/pkg/logging"
)

// Actor context and header names
const (
	ContextKeyActorID = "actorId"
	HeaderActorID     = "X-Actor-ID"

	// DefaultActorID is attributed when no actor header is present and the
	// endpoint does not require one
	DefaultActorID = "system"
)

// ActorConfig holds configuration for the actor middleware
type ActorConfig struct {
	// Required when true, requests without an actor header are rejected
	Required bool
}

// Actor middleware extracts the acting user from the X-Actor-ID header.
// Authentication happens upstream at the gateway; this service only records
// who performed each change.
func Actor(config *ActorConfig) gin.HandlerFunc {
	if config == nil {
		config = &ActorConfig{}
	}

	return func(c *gin.Context) {
		actorID := SanitizeString(c.GetHeader(HeaderActorID))

		if actorID == "" {
			if config.Required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    "MISSING_ACTOR",
					"message": "X-Actor-ID header is required",
				})
				return
			}
			actorID = DefaultActorID
		}

		c.Set(ContextKeyActorID, actorID)
		c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), actorID))

		c.Next()
	}
}

// GetActorID extracts the acting user from the Gin context
func GetActorID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyActorID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return DefaultActorID
}
