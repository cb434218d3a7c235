package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxIsMaster = "is_master"
)

var ErrMissingAuthHeader = errors.New("missing Authorization header")

// Auth returns a middleware that rejects requests without a valid JWT.
// On success it sets user_id, username and is_master on the context.
func Auth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, ErrMissingAuthHeader) {
				logrus.Warn("Auth middleware: missing Authorization header")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			} else {
				logrus.WithError(err).Warn("Auth middleware: malformed token")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			}
			c.Abort()
			return
		}

		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if !applyClaims(c, claims) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token processing error"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth sets identity from a JWT when one is present but lets the
// request through anonymously when it is not. Used on the websocket
// endpoint, where guests are allowed to spectate. An invalid token is
// treated as absent rather than rejected.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for OptionalAuth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			c.Next()
			return
		}
		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Debug("OptionalAuth: ignoring invalid token, continuing as guest")
			c.Next()
			return
		}
		applyClaims(c, claims)
		c.Next()
	}
}

// RequireMaster gates routes reserved for the master account. Must run
// after Auth.
func RequireMaster() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsMaster) {
			logrus.WithField("user_id", c.GetUint(CtxUserID)).Warn("Master-only route refused")
			c.JSON(http.StatusForbidden, gin.H{"error": "Master account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func applyClaims(c *gin.Context, claims jwt.MapClaims) bool {
	userIDClaim, ok := claims["user_id"]
	if !ok {
		logrus.Error("Auth middleware: user_id claim missing in token")
		return false
	}
	// JWT numbers decode as float64.
	userIDFloat, ok := userIDClaim.(float64)
	if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
		logrus.Errorf("Auth middleware: user_id claim is not a valid positive integer: %v", userIDClaim)
		return false
	}
	c.Set(CtxUserID, uint(userIDFloat))

	if username, ok := claims["username"].(string); ok {
		c.Set(CtxUsername, username)
	}
	if isMaster, ok := claims["is_master"].(bool); ok {
		c.Set(CtxIsMaster, isMaster)
	}
	return true
}

// extractToken reads the bearer token from the Authorization header, with a
// "token" query parameter fallback for websocket clients that cannot set
// headers.
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", ErrMissingAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

func validateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}
