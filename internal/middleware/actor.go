package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/models"
)

// ActorMiddleware records who is acting from the X-Actor-Email and
// X-Actor-Name headers. An actor taken from a bearer token is kept.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextActor); exists {
			c.Next()
			return
		}

		actor := models.Actor{
			Email: strings.TrimSpace(c.GetHeader("X-Actor-Email")),
			Name:  strings.TrimSpace(c.GetHeader("X-Actor-Name")),
		}
		if actor.Email != "" || actor.Name != "" {
			c.Set(ContextActor, actor)
		}

		c.Next()
	}
}

// GetActor extracts the acting user from gin context
func GetActor(c *gin.Context) models.Actor {
	actor, exists := c.Get(ContextActor)
	if !exists {
		return models.Actor{}
	}
	return actor.(models.Actor)
}
