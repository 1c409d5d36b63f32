// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shivpratapmithapalli/jobassist/internal/auth"
	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/model"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

// RequireAuth is a middleware that validates a Bearer token in the
// Authorization header, resolves the subject email to a stored user and
// attaches it to the request context. Routes registered without it are
// public; there is no token refresh or revocation, tokens simply expire.
func RequireAuth(db *database.DBinstanceStruct, tokens *auth.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.NewErrorResponse(
				"Unauthorized", err.Error(),
			))
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.NewErrorResponse(
				"Unauthorized", "Invalid access token",
			))
			return
		}

		if auth.Expired(claims) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.NewErrorResponse(
				"Unauthorized", "Access token expired",
			))
			return
		}

		if issuer, _ := claims["iss"].(string); issuer != auth.JwtIssuer {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.NewErrorResponse(
				"Unauthorized", "Invalid token issuer",
			))
			return
		}

		ctx.Set("claims", claims)

		email, _ := claims["sub"].(string)

		var foundUser model.User
		if err := db.Where("email = ?", email).First(&foundUser).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.NewErrorResponse(
					"Unauthorized", "User not exist",
				))
				return
			}

			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.NewErrorResponse(
				"Unauthorized", fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			))
			return
		}

		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
