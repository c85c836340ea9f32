package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"task-manager-api/internal/middleware"
	"task-manager-api/internal/models"
	"task-manager-api/internal/storage"
	"task-manager-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var secret = []byte("test-secret")

type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) Create(ctx context.Context, u *models.User) error { return nil }

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (s *stubUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, storage.ErrNotFound
}

func TestMain(m *testing.M) {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	os.Exit(m.Run())
}

func newProtectedApp(users storage.UserStore) *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.Protect(users, secret), func(c *fiber.Ctx) error {
		user := c.Locals(middleware.UserLocal).(*models.User)
		return c.JSON(fiber.Map{"user_id": user.ID})
	})
	return app
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("Error signing token: %v", err)
	}
	return signed
}

// TestProtectRejections: semua cabang gagal menghasilkan 401 yang sama
func TestProtectRejections(t *testing.T) {
	users := &stubUserStore{user: &models.User{ID: 1, Email: "user@example.com"}}
	app := newProtectedApp(users)

	expired := signToken(t, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongUser := signToken(t, jwt.MapClaims{
		"user_id": 999,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noUserID := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"user no longer exists", "Bearer " + wrongUser},
		{"missing user_id claim", "Bearer " + noUserID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Request error: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", resp.StatusCode)
			}
		})
	}
}

// TestProtectSuccess: token valid meloloskan request dan mengisi locals
func TestProtectSuccess(t *testing.T) {
	users := &stubUserStore{user: &models.User{ID: 7, Email: "user@example.com"}}
	app := newProtectedApp(users)

	token := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}
