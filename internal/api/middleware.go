package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// ContextUserIDKey is where AuthMiddleware stores the authenticated subject.
const ContextUserIDKey = "userID"

// sessionClaims is the JWT payload shape the identity provider issues. The
// subject lives in "uid" with the registered "sub" claim as fallback.
type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware that verifies the caller's session
// token. This service only verifies sessions, it never issues them; the
// secret is shared with the identity provider. Every failure path responds
// with the same message so probes learn nothing about why they were refused.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondUnauthorized(c)
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respondUnauthorized(c)
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			// Pin the algorithm family; "none" and asymmetric confusion
			// attacks both fail here.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			respondUnauthorized(c)
			return
		}

		subject := claims.UserID
		if subject == "" {
			subject = claims.Subject
		}
		if subject == "" {
			respondUnauthorized(c)
			return
		}

		c.Set(ContextUserIDKey, subject)
		c.Next()
	}
}

// getUserIDFromContext returns the authenticated subject set by
// AuthMiddleware (used by handlers).
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok || idStr == "" {
		return "", errors.New("invalid user ID in context")
	}
	return idStr, nil
}

func respondUnauthorized(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, "Unauthorized")
}
