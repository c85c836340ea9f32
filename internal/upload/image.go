package upload

import (
	"bytes"
	"strings"

	"github.com/disintegration/imaging"
)

// Batas bounding box hasil resize gambar.
const (
	maxImageWidth  = 800
	maxImageHeight = 800
	jpegQuality    = 80
)

// ProcessImage me-resize gambar agar muat dalam bounding box 800x800
// tanpa memperbesar gambar yang lebih kecil, lalu re-encode sebagai
// JPEG quality 80. File non-gambar (misalnya PDF) dikembalikan apa adanya.
func ProcessImage(data []byte, mimetype string) ([]byte, error) {
	if !strings.HasPrefix(mimetype, "image") {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// imaging.Fit hanya memperkecil, tidak pernah upscale
	img = imaging.Fit(img, maxImageWidth, maxImageHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
