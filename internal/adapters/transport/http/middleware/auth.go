package middleware

import (
	"net/http"
	"strings"

	"github.com/aras72h/user-account-service/internal/app/account/service"
	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	"github.com/gin-gonic/gin"
)

// ContextAccountKey is where the authenticated account is stored on the gin
// context for downstream handlers.
const ContextAccountKey = "account"

// Auth guards a route group with bearer-token authentication. A missing,
// malformed, expired or otherwise invalid token aborts with 401; the three
// cases get distinct messages but the same status.
func Auth(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
			return
		}

		account, err := svc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			switch {
			case customErrors.IsTokenExpired(err):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token expired"})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			}
			return
		}

		c.Set(ContextAccountKey, account)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
