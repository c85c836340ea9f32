package upload

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxFileSize adalah batas ukuran file upload (5 MiB).
const MaxFileSize = 5 << 20

var allowedExts = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".pdf": true}

var allowedMimeTokens = []string{"jpeg", "jpg", "png", "pdf"}

// ValidateFile memvalidasi ukuran dan tipe file upload.
// Ekstensi DAN content-type dua-duanya harus cocok dengan allow-list;
// satu saja tidak cukup, supaya ekstensi atau header yang dipalsukan
// tetap tertolak.
func ValidateFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return fiber.NewError(fiber.StatusBadRequest, "File size exceeds the limit of 5MB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := strings.ToLower(file.Header.Get("Content-Type"))

	mimeOK := false
	for _, token := range allowedMimeTokens {
		if strings.Contains(contentType, token) {
			mimeOK = true
			break
		}
	}

	if !allowedExts[ext] || !mimeOK {
		return fiber.NewError(fiber.StatusBadRequest, "Only .jpeg, .jpg, .png and .pdf format allowed!")
	}

	return nil
}
