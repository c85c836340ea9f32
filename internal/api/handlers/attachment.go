package handlers

import (
	"errors"
	"io"
	"time"

	"task-manager-api/internal/models"
	"task-manager-api/internal/storage"
	"task-manager-api/internal/upload"
	"task-manager-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UploadAttachment menerima satu file multipart di field "file",
// memvalidasi tipe dan ukurannya, me-resize gambar, mengunggahnya ke
// object store, lalu menempelkan metadata attachment ke task.
// Operasi per file all-or-nothing: gagal upload berarti tidak ada
// metadata yang tersimpan. Tanpa file, route mengembalikan task apa adanya.
func (h *Handler) UploadAttachment(c *fiber.Ctx) error {
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

	file, err := c.FormFile("file")
	if err != nil {
		// Tanpa file route jadi no-op, task dikembalikan apa adanya
		return c.JSON(fiber.Map{
			"message": "No file uploaded",
			"success": true,
			"status":  200,
			"data":    task,
		})
	}

	if err := upload.ValidateFile(file); err != nil {
		logger.ErrorLogger.Error("Error validating file", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": err.Error(),
			"success": false,
			"status":  400,
		})
	}

	src, err := file.Open()
	if err != nil {
		logger.ErrorLogger.Error("Error opening uploaded file", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error reading file",
			"success": false,
			"status":  500,
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		logger.ErrorLogger.Error("Error reading uploaded file", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error reading file",
			"success": false,
			"status":  500,
		})
	}

	mimetype := file.Header.Get("Content-Type")

	// File gambar di-resize dan di-re-encode, file lain lewat begitu saja
	data, err = upload.ProcessImage(data, mimetype)
	if err != nil {
		logger.ErrorLogger.Error("Error processing image", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid image file",
			"success": false,
			"status":  400,
		})
	}

	url, err := h.Uploader.Upload(c.UserContext(), data, file.Filename)
	if err != nil {
		logger.ErrorLogger.Error("Error uploading file to object store", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Failed to upload file",
			"success": false,
			"status":  400,
		})
	}

	task.Attachments = append(task.Attachments, models.Attachment{
		Filename:   file.Filename,
		URL:        url,
		Mimetype:   mimetype,
		UploadedAt: time.Now(),
	})
	if err := h.Tasks.Update(c.UserContext(), task); err != nil {
		logger.ErrorLogger.Error("Error saving attachment", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error saving attachment",
			"success": false,
			"status":  500,
		})
	}

	h.Cache.Del(c.UserContext(), taskCacheKey(taskID))
	h.Hub.PublishTask("task_updated", task)

	logger.AuditLogger.Info("Attachment uploaded",
		zap.Int("task_id", taskID), zap.String("filename", file.Filename))
	return c.JSON(fiber.Map{
		"message": "Attachment uploaded successfully",
		"success": true,
		"status":  200,
		"data":    task,
	})
}
