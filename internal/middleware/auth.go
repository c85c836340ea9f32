package middleware

import (
	"fmt"
	"strings"
	"time"

	"task-manager-api/internal/storage"
	"task-manager-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Key untuk menaruh identitas hasil autentikasi di request locals.
const (
	UserLocal  = "user"
	TokenLocal = "token"
)

// unauthorized mencatat alasan internal lalu mengembalikan response 401
// yang sama untuk semua cabang kegagalan. Alasan detail hanya untuk log,
// tidak pernah bocor ke client.
func unauthorized(c *fiber.Ctx, reason string) error {
	logger.SecurityLogger.Warn("Authentication failed",
		zap.String("reason", reason),
		zap.String("url", c.OriginalURL()),
	)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Please authenticate",
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}

// Protect memvalidasi bearer token dan me-resolve user pemiliknya
// sebelum request diteruskan. User dan raw token ditaruh di locals
// untuk dipakai handler berikutnya.
func Protect(users storage.UserStore, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "no Authorization header")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "invalid token format")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			return unauthorized(c, "empty token")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "invalid token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "invalid token claims")
		}
		if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
			return unauthorized(c, "token expired")
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return unauthorized(c, "invalid user ID in token")
		}

		// Identitas di token harus masih resolve ke user yang ada
		user, err := users.GetByID(c.UserContext(), int(userID))
		if err != nil {
			return unauthorized(c, "user not found")
		}

		c.Locals(UserLocal, user)
		c.Locals(TokenLocal, tokenString)
		return c.Next()
	}
}
