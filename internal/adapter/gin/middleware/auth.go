package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "places-service/pkg/errors"
	"places-service/pkg/logger"
	"places-service/pkg/metrics"
	"places-service/pkg/security"
)

// Keys set on the gin context by Auth.
const (
	UserIDKey = "userId"
	EmailKey  = "email"
)

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// Auth rejects requests without a valid bearer token and exposes the
// caller's identity to downstream handlers. CORS preflight requests pass.
func Auth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, log, "missing_token", nil)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, security.ErrExpiredToken) {
				reason = "expired_token"
			}
			reject(c, log, reason, err)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID))

		c.Next()
	}
}

// RequesterID returns the authenticated user id, or "" on public routes.
func RequesterID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(c *gin.Context, log *zap.Logger, reason string, err error) {
	metrics.ObserveAuthFailure(reason)
	logger.WithContext(c.Request.Context(), log).Info("authentication failed",
		zap.String("reason", reason), zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(apperrors.ErrUnauthorized)
	c.Abort()
}
