package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ContextUserIDKey is the gin context key holding the authenticated user id.
const ContextUserIDKey = "userID"

// jwtClaims mirrors the payload written by authService.generateJWT.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// Helper to return JSON error response and abort request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// getUserIDFromContext returns the authenticated user id set by AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// parseIDParam parses a uuid path parameter, aborting with 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID is parseIDParam's twin for the JWT user id: handlers call it
// first and bail out on failure.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user")
		return uuid.Nil, false
	}
	return userID, true
}
