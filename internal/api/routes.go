package api

import (
	"task-manager-api/internal/api/handlers"
	"task-manager-api/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler) {
	protect := middleware.Protect(h.Users, h.Secret)

	api := app.Group("/api")

	// User
	api.Post("/users/register", h.Register)
	api.Post("/users/login", h.Login)
	api.Get("/users/me", protect, h.Me)

	// Task
	taskRoutes := api.Group("/tasks", protect)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Get("/", h.ListTasks)
	// stats dan analytics harus terdaftar sebelum /:id,
	// kalau tidak path-nya tertelan sebagai id lookup
	taskRoutes.Get("/stats", h.TaskStats)
	taskRoutes.Get("/analytics", h.TaskAnalytics)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Patch("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)
	taskRoutes.Post("/:id/attachments", h.UploadAttachment)

	// Category
	categoryRoutes := api.Group("/categories", protect)
	categoryRoutes.Post("/", h.CreateCategory)
	categoryRoutes.Get("/", h.ListCategories)
	categoryRoutes.Get("/:id", h.GetCategory)
	categoryRoutes.Put("/:id", h.UpdateCategory)
	categoryRoutes.Delete("/:id", h.DeleteCategory)
}
