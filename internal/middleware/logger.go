package middleware

import (
	"fmt"
	"runtime/debug"

	"task-manager-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler me-recover panic dari handler dan mencatat setiap request
// yang masuk. Detail error hanya dikirim ke client di environment
// development, selain itu pesan generik.
func ErrorHandler(env string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("Recovered from panic: %v", r)
				stack := string(debug.Stack())
				logger.ErrorLogger.Error(errMsg, zap.String("stack", stack))

				message := "Something went wrong!"
				if env == "development" {
					message = errMsg
				}
				c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": message,
					"success": false,
					"status":  fiber.StatusInternalServerError,
				})
			}
		}()
		// Logging request masuk
		logger.RequestLogger.Info("Incoming request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
		)
		return c.Next()
	}
}
