package upload

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"task-manager-api/configs"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadFolder adalah namespace folder di object store.
const uploadFolder = "task-manager"

// Uploader mengirim buffer file ke object store dan mengembalikan
// URL permanen. Gagal upload berarti tidak ada metadata yang disimpan.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// CloudinaryUploader adalah implementasi Uploader di atas Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cfg configs.Config) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       uploadFolder,
		PublicID:     ObjectKey(filename),
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ObjectKey membentuk nama objek dari timestamp plus stem filename asli
// yang sudah disanitasi. Timestamp yang selalu naik menghindari tabrakan
// nama tanpa perlu cek uniqueness di sisi store.
func ObjectKey(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = unsafeChars.ReplaceAllString(stem, "_")
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), stem)
}
