package handlers

import (
	"fmt"
	"time"

	"task-manager-api/internal/cache"
	"task-manager-api/internal/models"
	"task-manager-api/internal/storage"
	"task-manager-api/internal/upload"
	"task-manager-api/internal/ws"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// taskCacheTTL adalah lama task disimpan di cache.
const taskCacheTTL = time.Hour

// Handler memegang seluruh dependency yang dibutuhkan endpoint API.
// Semua dependency eksplisit, tidak ada state global.
type Handler struct {
	Users      storage.UserStore
	Tasks      storage.TaskStore
	Categories storage.CategoryStore
	Cache      cache.Cache
	Uploader   upload.Uploader
	Hub        *ws.Hub
	Secret     []byte
	Validate   *validator.Validate
}

// CurrentUser mengambil user hasil autentikasi dari locals.
func CurrentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}

func taskCacheKey(id int) string {
	return fmt.Sprintf("task:%d", id)
}
