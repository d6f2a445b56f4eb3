//go:build gcloud

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// NewFireAuth verifies the OIDC token Cloud Tasks attaches to fire
// callbacks. When serviceAccount is set the token must belong to it.
func NewFireAuth(audience, serviceAccount string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
			return
		}

		payload, err := idtoken.Validate(ctx, raw, audience)
		if err != nil {
			slog.WarnContext(ctx, "fire callback token rejected",
				slog.String("event", "fire.auth.fail"),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
			return
		}

		if serviceAccount != "" {
			if email, _ := payload.Claims["email"].(string); email != serviceAccount {
				slog.WarnContext(ctx, "fire callback from unexpected principal",
					slog.String("event", "fire.auth.fail"),
					slog.String("email", email),
				)
				respondError(c, http.StatusForbidden, CodeUnauthorized, "caller not allowed")
				return
			}
		}

		c.Next()
	}
}
