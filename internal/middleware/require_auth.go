// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// RequireAuth validates the Bearer access token of the Authorization header, loads
// its user and puts "user" and "claims" in the context before allowing access.
func RequireAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Authentication credentials were not provided",
			})
			return
		}

		status, err := authenticate(ctx, db, tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(status, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		ctx.Next()
	}
}

// OptionalAuth behaves like RequireAuth when a token is sent and lets anonymous
// requests through. An invalid token is still rejected.
func OptionalAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !utilities.HasBearerToken(ctx) {
			ctx.Next()
			return
		}
		RequireAuth(db)(ctx)
	}
}

func authenticate(ctx *gin.Context, db *database.DBinstanceStruct, tokenString string) (int, error) {
	claims, err := auth.ParseClaims(tokenString, auth.AudienceAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return http.StatusUnauthorized, errors.New("Access token expired")
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return http.StatusUnauthorized, errors.New("Invalid token issuer")
		case errors.Is(err, auth.ErrWrongTokenType):
			return http.StatusUnauthorized, errors.New("Invalid access token")
		default:
			return http.StatusUnauthorized, fmt.Errorf("Failed to validate token: %s", err.Error())
		}
	}
	ctx.Set("claims", claims)

	var foundUser model.User
	if err := db.Preload("Profile").Where("id = ?", claims.Subject).First(&foundUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.StatusUnauthorized, errors.New("User not exist")
		}
		return http.StatusInternalServerError, fmt.Errorf("Failed to retrieve user data: %s", err.Error())
	}

	ctx.Set("user", foundUser)
	return http.StatusOK, nil
}

// CheckStaff will protect endpoint from user that is not staff, it must run after RequireAuth
func CheckStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		if !user.IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "You do not have permission to perform this action",
			})
		}
	}
}
