package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialhub/socialhub/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token so it can be revoked on logout.
	ContextTokenKey = "token"
	// ContextTokenExpiryKey stores the token expiration time.
	ContextTokenExpiryKey = "token_expires_at"
)

// AccountLookup resolves the current username of an account. found is false
// once the account has been deleted.
type AccountLookup interface {
	ActiveUsername(ctx context.Context, id uint) (username string, found bool, err error)
}

// AuthRequired ensures the request is authenticated via JWT and that the
// token still belongs to an existing account.
func AuthRequired(accounts AccountLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		username, found, err := accounts.ActiveUsername(ctx.Request.Context(), claims.UserID)
		if err != nil {
			utils.Logger.Error("account lookup failed",
				zap.Error(err),
				zap.Uint("user_id", claims.UserID),
				zap.String(utils.RequestIDKey, ctx.GetString(utils.RequestIDKey)),
			)
			utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
			ctx.Abort()
			return
		}
		if !found {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		setIdentity(ctx, tokenString, claims, username)
		ctx.Next()
	}
}

// AuthOptional attaches the identity of a valid bearer token and lets anonymous
// requests through untouched.
func AuthOptional(accounts AccountLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString, ok := bearerToken(ctx.GetHeader("Authorization")); ok && !utils.IsTokenBlacklisted(tokenString) {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				if username, found, err := accounts.ActiveUsername(ctx.Request.Context(), claims.UserID); err == nil && found {
					setIdentity(ctx, tokenString, claims, username)
				}
			}
		}
		ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// setIdentity stores the caller identity. The username comes from the account
// row, so a renamed account is seen under its new name.
func setIdentity(ctx *gin.Context, token string, claims *utils.Claims, username string) {
	ctx.Set(ContextUserIDKey, claims.UserID)
	ctx.Set(ContextUsernameKey, username)
	ctx.Set(ContextTokenKey, token)
	if claims.ExpiresAt != nil {
		ctx.Set(ContextTokenExpiryKey, claims.ExpiresAt.Time)
	} else {
		ctx.Set(ContextTokenExpiryKey, time.Now().Add(24*time.Hour))
	}
}
