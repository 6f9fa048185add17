package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/veritas-labs/veritas/internal/config"
	"github.com/veritas-labs/veritas/internal/pkg/apperrors"
)

const HeaderAPIKey = "X-Api-Key"

// APIKeyMiddleware guards the prediction routes when auth.require_api_key is
// set. Otherwise it is a no-op.
func APIKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || !cfg.Auth.RequireAPIKey {
			c.Next()
			return
		}
		apiKey := c.GetHeader(HeaderAPIKey)
		if apiKey == "" {
			abortWith(c, apperrors.New(apperrors.ErrAuthFailed, "missing API key", nil))
			return
		}
		if !keysEqual(apiKey, cfg.Auth.APIKey) {
			abortWith(c, apperrors.New(apperrors.ErrAuthFailed, "invalid API key", nil))
			return
		}
		c.Next()
	}
}

func keysEqual(got, want string) bool {
	return want != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.Abort()
}
