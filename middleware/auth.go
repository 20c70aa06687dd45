package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const UserKey = "userID"

// OptionalAuth resolves an authenticated session when a Bearer token is
// present, but never rejects: the confirmation endpoint must work for
// guests, whose identity is resolved from payment billing details instead.
func OptionalAuth() gin.HandlerFunc {
	secret := []byte(os.Getenv("JWT_SECRET"))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				if id, err := uuid.Parse(sub); err == nil {
					c.Set(UserKey, id)
				}
			}
		}
		c.Next()
	}
}

// GetSessionUserID returns the authenticated user id, or nil for guests.
func GetSessionUserID(c *gin.Context) *uuid.UUID {
	if val, exists := c.Get(UserKey); exists {
		if id, ok := val.(uuid.UUID); ok {
			return &id
		}
	}
	return nil
}
