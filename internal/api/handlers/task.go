package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"task-manager-api/internal/models"
	"task-manager-api/internal/storage"
	"task-manager-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateTask membuat task baru milik user yang sedang login.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	user := CurrentUser(c)

	type TaskRequest struct {
		Title       string     `json:"title" validate:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
		Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
		DueDate     *time.Time `json:"due_date"`
		CategoryID  *int       `json:"category_id"`
		Tags        []string   `json:"tags"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := h.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Attachments: []models.Attachment{},
	}
	if err := h.Tasks.Create(c.UserContext(), &task); err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	h.Hub.PublishTask("task_created", &task)

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

// ListTasks mengembalikan satu halaman task milik user, dengan filter
// status, sorting "field:direction", dan pagination ?page ?limit.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	user := CurrentUser(c)

	opts := storage.ListOptions{
		Status: c.Query("status"),
		SortBy: c.Query("sortBy"),
	}
	// page/limit yang tidak numerik diperlakukan seperti tidak diisi
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = limit
	}

	page, err := h.Tasks.List(c.UserContext(), user.ID, opts)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Tasks fetched successfully", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    page,
	})
}

// GetTask mengembalikan satu task berdasarkan id, dengan cache Redis.
func (h *Handler) GetTask(c *fiber.Ctx) error {
	user := CurrentUser(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Coba ambil dari cache dulu
	if cached, ok := h.Cache.Get(c.UserContext(), taskCacheKey(taskID)); ok {
		var task models.Task
		if err := json.Unmarshal([]byte(cached), &task); err == nil {
			// Task milik user lain diperlakukan sama dengan task
			// yang tidak ada
			if task.UserID != user.ID {
				return c.Status(404).JSON(fiber.Map{
					"message": "Task not found",
					"success": false,
					"status":  404,
				})
			}
			logger.AuditLogger.Info("Task found (from cache)", zap.Int("task_id", taskID))
			return c.JSON(fiber.Map{
				"message": "Task found",
				"success": true,
				"status":  200,
				"data":    task,
			})
		}
	}

	task, err := h.Tasks.Get(c.UserContext(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	h.cacheTask(c, task)

	logger.AuditLogger.Info("Task found", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// allowedUpdates adalah allow-list field task yang boleh di-update.
// Field lain dalam payload membuat seluruh update ditolak.
var allowedUpdates = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
	"due_date":    true,
}

// UpdateTask meng-update field task dalam allow-list. Validasi allow-list
// dilakukan sebelum record disentuh: satu field asing menolak semuanya.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	user := CurrentUser(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	for field := range payload {
		if !allowedUpdates[field] {
			logger.SecurityLogger.Warn("Disallowed field in task update",
				zap.String("field", field), zap.Int("user_id", user.ID))
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid updates",
				"success": false,
				"status":  400,
			})
		}
	}

	task, err := h.Tasks.Get(c.UserContext(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	if raw, ok := payload["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil || title == "" {
			return c.Status(400).JSON(fiber.Map{
				"message": "Title is required",
				"success": false,
				"status":  400,
			})
		}
		task.Title = title
	}
	if raw, ok := payload["description"]; ok {
		if err := json.Unmarshal(raw, &task.Description); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Bad request",
				"success": false,
				"status":  400,
			})
		}
	}
	if raw, ok := payload["status"]; ok {
		var status string
		if err := json.Unmarshal(raw, &status); err != nil || !models.ValidStatus(status) {
			logger.ErrorLogger.Error("Invalid status in update task")
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid status",
				"success": false,
				"status":  400,
			})
		}
		// Transisi ke completed menyimpan timestamp penyelesaian,
		// keluar dari completed menghapusnya
		if status == models.StatusCompleted && task.Status != models.StatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else if status != models.StatusCompleted {
			task.CompletedAt = nil
		}
		task.Status = status
	}
	if raw, ok := payload["due_date"]; ok {
		var dueDate *time.Time
		if err := json.Unmarshal(raw, &dueDate); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid due date",
				"success": false,
				"status":  400,
			})
		}
		task.DueDate = dueDate
	}

	if err := h.Tasks.Update(c.UserContext(), task); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	// Perbarui cache untuk task ini
	h.Cache.Del(c.UserContext(), taskCacheKey(taskID))
	h.cacheTask(c, task)
	h.Hub.PublishTask("task_updated", task)

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// DeleteTask menghapus task milik user dan mengembalikan record yang dihapus.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	user := CurrentUser(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := h.Tasks.Get(c.UserContext(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	if err := h.Tasks.Delete(c.UserContext(), taskID, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	h.Cache.Del(c.UserContext(), taskCacheKey(taskID))
	h.Hub.PublishTask("task_deleted", task)

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// TaskStats mengembalikan jumlah task per status.
func (h *Handler) TaskStats(c *fiber.Ctx) error {
	user := CurrentUser(c)

	stats, err := h.Tasks.Stats(c.UserContext(), user.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching task stats", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task stats",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task stats fetched successfully",
		"success": true,
		"status":  200,
		"data":    stats,
	})
}

// TaskAnalytics mengembalikan jumlah task yang dibuat per hari dalam
// timeframe yang diminta (week = 7 hari, month = 1 bulan ke belakang).
// Timeframe lain membiarkan batas bawah di saat ini (perilaku lama
// dipertahankan).
func (h *Handler) TaskAnalytics(c *fiber.Ctx) error {
	user := CurrentUser(c)

	now := time.Now()
	since := now
	switch c.Query("timeframe", "week") {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	}

	analytics, err := h.Tasks.Analytics(c.UserContext(), user.ID, since)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching task analytics", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task analytics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task analytics fetched successfully",
		"success": true,
		"status":  200,
		"data":    analytics,
	})
}

// cacheTask menyimpan task ke cache; kegagalan marshal cukup diabaikan.
func (h *Handler) cacheTask(c *fiber.Ctx, task *models.Task) {
	if data, err := json.Marshal(task); err == nil {
		h.Cache.Set(c.UserContext(), taskCacheKey(task.ID), string(data), taskCacheTTL)
	}
}
