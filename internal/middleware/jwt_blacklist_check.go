package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// JwtBlacklistCheck rejects a request whose access token was revoked by logout.
// It reads the claims RequireAuth stored and lets requests without claims through.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, ok := ctx.Get("claims")
		if !ok {
			ctx.Next()
			return
		}
		claims, ok := raw.(*jwt.RegisteredClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "invalid token claims type",
			})
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(claims.ID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			})
			return
		}

		if isBlacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}
		ctx.Next()
	}
}
