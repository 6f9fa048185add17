package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veritas-labs/veritas/internal/config"
	"github.com/veritas-labs/veritas/internal/pkg/apperrors"
)

const HeaderAdminKey = "X-Admin-Key"

func AdminMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || cfg.Auth.AdminKey == "" {
			err := apperrors.New(apperrors.ErrAuthFailed, "admin key not configured", nil)
			err.HTTPStatus = http.StatusForbidden
			err.Suggestion = ""
			abortWith(c, err)
			return
		}
		if !keysEqual(c.GetHeader(HeaderAdminKey), cfg.Auth.AdminKey) {
			err := apperrors.New(apperrors.ErrAuthFailed, "invalid admin key", nil)
			err.Suggestion = "Check the X-Admin-Key header."
			abortWith(c, err)
			return
		}
		c.Next()
	}
}
