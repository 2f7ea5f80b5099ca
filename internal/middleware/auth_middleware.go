package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/castcall/castcall/internal/authz"
	"github.com/castcall/castcall/internal/helpers"
	"github.com/castcall/castcall/internal/models"
)

// JWTAuthMiddleware rejects requests without a valid bearer token and
// attaches user_id and user_role to the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromRequest(c)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware attaches the caller identity when a token is
// present but lets anonymous requests through. Used on listings where
// privileged callers may request non-public status filters.
func OptionalJWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		principal, err := principalFromRequest(c)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		setPrincipal(c, principal)
		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. It assumes
// JWTAuthMiddleware already ran.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required.")
			c.Abort()
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to perform this action.")
		c.Abort()
	}
}

// Principal rebuilds the caller identity set by the auth middleware, or nil
// for anonymous requests.
func Principal(c *gin.Context) *authz.Principal {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		return nil
	}
	role, _ := models.ParseRole(c.GetString("user_role"))
	return &authz.Principal{UserID: userUUID, Role: role}
}

func setPrincipal(c *gin.Context, principal *authz.Principal) {
	c.Set("user_id", principal.UserID)
	c.Set("user_role", principal.Role.String())
}

func principalFromRequest(c *gin.Context) (*authz.Principal, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, fmt.Errorf("authorization header missing")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token")
	}

	roleStr, _ := claims["role"].(string)
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return nil, fmt.Errorf("invalid role in token")
	}

	return &authz.Principal{UserID: userID, Role: role}, nil
}
