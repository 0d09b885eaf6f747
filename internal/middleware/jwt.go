package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/scit-dev/registrar/pkg/errors"
	"github.com/scit-dev/registrar/pkg/response"
)

type tokenVerifier interface {
	VerifyAdminToken(raw string) error
}

// AdminAuth guards admin endpoints with a bearer token.
func AdminAuth(verifier tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing bearer token"))
			c.Abort()
			return
		}
		if err := verifier.VerifyAdminToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
