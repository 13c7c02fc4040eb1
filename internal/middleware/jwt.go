// jwt.go provides bearer-token authentication for the JSON API.
// Browser sessions are accepted on the API as well.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"

	"github.com/HackNC/resume-parser/internal/models"
)

// TokenTTL is how long an API token stays valid.
const TokenTTL = 72 * time.Hour

// JWTClaims extends standard JWT claims with user info.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a new JWT token for a user.
func GenerateJWT(user *models.User, secret string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT validates and parses a JWT token string.
func ParseJWT(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

var errNoBearer = errors.New("missing bearer token")

func bearerUser(c *gin.Context, users UserLookup, jwtSecret string) (*models.User, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errNoBearer
	}
	claims, err := ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), jwtSecret)
	if err != nil {
		return nil, err
	}
	return users.GetUser(c.Request.Context(), claims.UserID)
}

// APIAuth returns middleware that accepts EITHER a Bearer JWT OR a browser
// session cookie, and answers 401 JSON when neither is valid.
func APIAuth(store sessions.Store, users UserLookup, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := bearerUser(c, users, jwtSecret); err == nil {
			setUser(c, user)
			c.Next()
			return
		}

		if user := sessionUser(c, store, users); user != nil {
			setUser(c, user)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Log in or provide Authorization: Bearer <token>",
			Code:    http.StatusUnauthorized,
		})
		c.Abort()
	}
}
