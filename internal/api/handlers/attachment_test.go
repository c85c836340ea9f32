package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// pngBytes meng-encode gambar polos sebagai PNG untuk dipakai di test upload
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 60, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Error encoding png: %v", err)
	}
	return buf.Bytes()
}

// doUpload mengirim satu file multipart di field "file" ke route attachment
func doUpload(t *testing.T, app *fiber.App, path, token, filename, contentType string, data []byte) (int, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("Error creating multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Error writing multipart part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding upload response: %v", err)
	}
	return resp.StatusCode, result
}

// TestUploadAttachmentImage: PNG valid di-resize, diunggah sekali, dan
// metadata-nya menempel di task
func TestUploadAttachmentImage(t *testing.T) {
	app, f := createTestApp()
	token, _ := registerAndLogin(t, app, uniqueEmail("upload"))
	taskID := createTask(t, app, token, "Task dengan lampiran")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	original := pngBytes(t, 1600, 1200)
	status, result := doUpload(t, app, path, token, "liburan pantai.png", "image/png", original)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d (%v)", status, result["message"])
	}

	if f.uploader.calls != 1 {
		t.Fatalf("Expected 1 upload call, got %d", f.uploader.calls)
	}
	// gambar di-re-encode sebagai JPEG sebelum diunggah
	if len(f.uploader.lastData) < 2 || f.uploader.lastData[0] != 0xFF || f.uploader.lastData[1] != 0xD8 {
		t.Errorf("Expected uploaded bytes to be a JPEG")
	}
	if bytes.Equal(f.uploader.lastData, original) {
		t.Errorf("Expected image to be re-encoded, got original bytes")
	}

	data := result["data"].(map[string]interface{})
	attachments := data["attachments"].([]interface{})
	if len(attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(attachments))
	}
	att := attachments[0].(map[string]interface{})
	if att["filename"] != "liburan pantai.png" {
		t.Errorf("Unexpected filename: %v", att["filename"])
	}
	if att["mimetype"] != "image/png" {
		t.Errorf("Unexpected mimetype: %v", att["mimetype"])
	}
	if !strings.HasPrefix(att["url"].(string), "https://res.example.com/") {
		t.Errorf("Unexpected url: %v", att["url"])
	}
}

// TestUploadAttachmentPDFPassthrough: file non-gambar tidak diproses,
// byte yang diunggah sama persis dengan aslinya
func TestUploadAttachmentPDFPassthrough(t *testing.T) {
	app, f := createTestApp()
	token, _ := registerAndLogin(t, app, uniqueEmail("pdf"))
	taskID := createTask(t, app, token, "Task dengan dokumen")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	original := []byte("%PDF-1.4 isi dokumen")
	status, _ := doUpload(t, app, path, token, "laporan.pdf", "application/pdf", original)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if !bytes.Equal(f.uploader.lastData, original) {
		t.Errorf("Expected pdf bytes to pass through unchanged")
	}
}

// TestUploadAttachmentLargePDF: file valid di antara 4 dan 5 MiB tidak
// boleh terpotong oleh body limit framework, batas ukuran yang berlaku
// adalah milik pipeline upload
func TestUploadAttachmentLargePDF(t *testing.T) {
	app, f := createTestApp()
	token, _ := registerAndLogin(t, app, uniqueEmail("largepdf"))
	taskID := createTask(t, app, token, "Task dokumen besar")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	large := make([]byte, 9<<19) // 4.5 MiB
	copy(large, "%PDF-1.4")
	status, result := doUpload(t, app, path, token, "arsip.pdf", "application/pdf", large)
	if status != 200 {
		t.Fatalf("Expected status 200 for 4.5 MiB pdf, got %d (%v)", status, result["message"])
	}
	if f.uploader.calls != 1 {
		t.Errorf("Expected 1 upload call, got %d", f.uploader.calls)
	}

	attachments := result["data"].(map[string]interface{})["attachments"].([]interface{})
	if len(attachments) != 1 {
		t.Errorf("Expected 1 attachment, got %d", len(attachments))
	}
}

// TestUploadAttachmentRejections: file yang tidak valid ditolak tanpa
// pernah menyentuh object store
func TestUploadAttachmentRejections(t *testing.T) {
	app, f := createTestApp()
	token, _ := registerAndLogin(t, app, uniqueEmail("reject"))
	taskID := createTask(t, app, token, "Task bersih")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		wantMsg     string
	}{
		{"oversized file", "besar.pdf", "application/pdf", make([]byte, 5<<20+1),
			"File size exceeds the limit of 5MB"},
		{"disallowed extension", "script.exe", "application/pdf", []byte("MZ"),
			"Only .jpeg, .jpg, .png and .pdf format allowed!"},
		{"spoofed mimetype", "foto.png", "application/octet-stream", []byte("bukan gambar"),
			"Only .jpeg, .jpg, .png and .pdf format allowed!"},
		{"gif not allowed", "animasi.gif", "image/gif", []byte("GIF89a"),
			"Only .jpeg, .jpg, .png and .pdf format allowed!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, result := doUpload(t, app, path, token, tt.filename, tt.contentType, tt.data)
			if status != 400 {
				t.Errorf("Expected status 400, got %d", status)
			}
			if result["message"] != tt.wantMsg {
				t.Errorf("Unexpected message: %v", result["message"])
			}
		})
	}

	if f.uploader.calls != 0 {
		t.Errorf("Expected no upload calls for rejected files, got %d", f.uploader.calls)
	}

	// task tetap tanpa attachment
	_, result := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), token, nil)
	attachments := result["data"].(map[string]interface{})["attachments"].([]interface{})
	if len(attachments) != 0 {
		t.Errorf("Expected no attachments after rejections, got %d", len(attachments))
	}
}

// TestUploadAttachmentCorruptImage: ekstensi dan mimetype gambar tapi
// isinya bukan gambar yang bisa di-decode
func TestUploadAttachmentCorruptImage(t *testing.T) {
	app, f := createTestApp()
	token, _ := registerAndLogin(t, app, uniqueEmail("corrupt"))
	taskID := createTask(t, app, token, "Task gambar rusak")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	status, result := doUpload(t, app, path, token, "rusak.png", "image/png", []byte("bukan png sama sekali"))
	if status != 400 {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if result["message"] != "Invalid image file" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
	if f.uploader.calls != 0 {
		t.Errorf("Expected no upload call for corrupt image, got %d", f.uploader.calls)
	}
}

// TestUploadAttachmentStoreFailure: gagal upload berarti tidak ada
// metadata yang tersimpan di task
func TestUploadAttachmentStoreFailure(t *testing.T) {
	app, f := createTestApp()
	f.uploader.err = errors.New("object store unavailable")
	token, _ := registerAndLogin(t, app, uniqueEmail("storefail"))
	taskID := createTask(t, app, token, "Task gagal upload")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	status, result := doUpload(t, app, path, token, "foto.png", "image/png", pngBytes(t, 100, 100))
	if status != 400 {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if result["message"] != "Failed to upload file" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	_, getResult := doJSON(t, app, "GET", fmt.Sprintf("/api/tasks/%d", taskID), token, nil)
	attachments := getResult["data"].(map[string]interface{})["attachments"].([]interface{})
	if len(attachments) != 0 {
		t.Errorf("Expected no attachments after failed upload, got %d", len(attachments))
	}
}

// TestUploadAttachmentNoFile: tanpa file route jadi no-op 200
func TestUploadAttachmentNoFile(t *testing.T) {
	app, f := createTestApp()
	token, _ := registerAndLogin(t, app, uniqueEmail("nofile"))
	taskID := createTask(t, app, token, "Task tanpa file")
	path := fmt.Sprintf("/api/tasks/%d/attachments", taskID)

	status, result := doJSON(t, app, "POST", path, token, nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if result["message"] != "No file uploaded" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
	if f.uploader.calls != 0 {
		t.Errorf("Expected no upload calls, got %d", f.uploader.calls)
	}

	// task milik user lain tetap 404
	otherToken, _ := registerAndLogin(t, app, uniqueEmail("nofile_other"))
	if status, _ := doJSON(t, app, "POST", path, otherToken, nil); status != 404 {
		t.Errorf("Expected status 404 for cross-owner upload, got %d", status)
	}
}
