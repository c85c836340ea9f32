package handlers

import (
	"errors"

	"task-manager-api/internal/models"
	"task-manager-api/internal/storage"
	"task-manager-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Default tampilan kategori, mengikuti client iOS.
const (
	defaultCategoryColor = "#007AFF"
	defaultCategoryIcon  = "list.bullet"
)

// CreateCategory membuat kategori baru milik user yang sedang login.
func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	user := CurrentUser(c)

	type CategoryRequest struct {
		Name  string `json:"name" validate:"required"`
		Color string `json:"color"`
		Icon  string `json:"icon"`
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create category", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create category", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if req.Color == "" {
		req.Color = defaultCategoryColor
	}
	if req.Icon == "" {
		req.Icon = defaultCategoryIcon
	}

	category := models.Category{
		UserID: user.ID,
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := h.Categories.Create(c.UserContext(), &category); err != nil {
		logger.ErrorLogger.Error("Error creating category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating category",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Category created successfully", zap.Int("category_id", category.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Category created successfully",
		"success": true,
		"status":  201,
		"data":    category,
	})
}

// ListCategories mengembalikan semua kategori milik user.
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	user := CurrentUser(c)

	categories, err := h.Categories.List(c.UserContext(), user.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching categories", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching categories",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Categories fetched successfully",
		"success": true,
		"status":  200,
		"data":    categories,
	})
}

// GetCategory mengembalikan satu kategori berdasarkan id.
func (h *Handler) GetCategory(c *fiber.Ctx) error {
	user := CurrentUser(c)

	categoryID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid category ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid category ID",
			"success": false,
			"status":  400,
		})
	}

	category, err := h.Categories.Get(c.UserContext(), categoryID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Category not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching category",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Category found",
		"success": true,
		"status":  200,
		"data":    category,
	})
}

// UpdateCategory meng-update nama, warna, atau ikon kategori.
func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	user := CurrentUser(c)

	categoryID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid category ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid category ID",
			"success": false,
			"status":  400,
		})
	}

	category, err := h.Categories.Get(c.UserContext(), categoryID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Category not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching category",
			"success": false,
			"status":  500,
		})
	}

	// Pointer menandakan field yang tidak diisi
	type UpdateCategoryRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
		Icon  *string `json:"icon"`
	}

	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update category", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(400).JSON(fiber.Map{
				"message": "Name is required",
				"success": false,
				"status":  400,
			})
		}
		category.Name = *req.Name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := h.Categories.Update(c.UserContext(), category); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Category not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error updating category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating category",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Category updated", zap.Int("category_id", categoryID))
	return c.JSON(fiber.Map{
		"message": "Category updated successfully",
		"success": true,
		"status":  200,
		"data":    category,
	})
}

// DeleteCategory menghapus kategori milik user.
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	user := CurrentUser(c)

	categoryID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid category ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid category ID",
			"success": false,
			"status":  400,
		})
	}

	if err := h.Categories.Delete(c.UserContext(), categoryID, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Category not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error deleting category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting category",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Category deleted", zap.Int("category_id", categoryID))
	return c.JSON(fiber.Map{
		"message": "Category deleted",
		"success": true,
		"status":  200,
	})
}
