package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"vendor-backend/internal/models"
	"vendor-backend/internal/services"
)

// Context keys set by the auth and actor middleware
const (
	ContextAuthMethod = "auth_method"
	ContextAPIKeyID   = "api_key_id"
	ContextActor      = "actor"
)

// Auth methods recorded under ContextAuthMethod
const (
	AuthMethodStaticKey = "static_key"
	AuthMethodAPIKey    = "api_key"
	AuthMethodBearer    = "bearer"
)

// KeyAuthenticator resolves database-backed API keys
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, key string) (*models.APIKey, error)
}

// AuthConfig selects the credentials accepted by Auth
type AuthConfig struct {
	// StaticKey is the shared service key; empty disables it
	StaticKey string
	// Keys resolves issued API keys; nil disables them
	Keys KeyAuthenticator
	// JWTSecret verifies HS256 bearer tokens; empty disables them
	JWTSecret string
	Logger    logrus.FieldLogger
}

// ActorClaims are the bearer token claims used by the API
type ActorClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Auth requires an X-API-Key header or, when a JWT secret is configured,
// an Authorization: Bearer token.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			if cfg.StaticKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.StaticKey)) == 1 {
				c.Set(ContextAuthMethod, AuthMethodStaticKey)
				c.Next()
				return
			}

			if cfg.Keys != nil {
				apiKey, err := cfg.Keys.Authenticate(c.Request.Context(), key)
				if err == nil {
					c.Set(ContextAuthMethod, AuthMethodAPIKey)
					c.Set(ContextAPIKeyID, apiKey.ID)
					c.Next()
					return
				}
				if !errors.Is(err, services.ErrAPIKeyNotFound) {
					logger.WithError(err).Error("API key lookup failed")
				}
			}

			abortUnauthorized(c, "INVALID_API_KEY", "Invalid API key")
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || cfg.JWTSecret == "" {
			abortUnauthorized(c, "MISSING_CREDENTIALS", "X-API-Key header is required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abortUnauthorized(c, "INVALID_TOKEN_FORMAT", "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := parseActorToken(tokenParts[1], cfg.JWTSecret)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", fmt.Sprintf("Token validation failed: %v", err))
			return
		}

		c.Set(ContextAuthMethod, AuthMethodBearer)
		c.Set(ContextActor, models.Actor{Email: claims.Email, Name: claims.Name})
		c.Next()
	}
}

func parseActorToken(tokenString, secret string) (*ActorClaims, error) {
	claims := &ActorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}
