package main

import (
	"log"
	"time"

	"task-manager-api/configs"
	"task-manager-api/internal/api"
	"task-manager-api/internal/api/handlers"
	"task-manager-api/internal/cache"
	"task-manager-api/internal/middleware"
	"task-manager-api/internal/models"
	"task-manager-api/internal/storage"
	"task-manager-api/internal/upload"
	"task-manager-api/internal/ws"
	"task-manager-api/pkg/database"
	"task-manager-api/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config; credential yang wajib tapi kosong langsung fatal
	cfg := configs.LoadConfig()

	// Inisialisasi database, koneksi awal di-retry tiap 5 detik
	db := database.ConnectDB(cfg)
	defer db.Close()
	logger.SystemLogger.Info("Database Connected")

	// Buat tabel jika belum ada
	storage.CreateTablesIfNotExist(db)

	// Inisialisasi Redis
	redisClient := database.ConnectRedis(cfg)
	defer redisClient.Close()

	// Inisialisasi Cloudinary uploader
	uploader, err := upload.NewCloudinaryUploader(cfg)
	if err != nil {
		log.Fatalf("Could not configure Cloudinary: %v", err)
	}

	// Hub WebSocket untuk event task
	hub := ws.NewHub()
	go hub.Run()

	h := &handlers.Handler{
		Users:      storage.NewPostgresUserStore(db),
		Tasks:      storage.NewPostgresTaskStore(db),
		Categories: storage.NewPostgresCategoryStore(db),
		Cache:      cache.NewRedisCache(redisClient),
		Uploader:   uploader,
		Hub:        hub,
		Secret:     []byte(cfg.JWTSecret),
		Validate:   validator.New(),
	}

	// Body limit di atas batas 5 MiB pipeline upload (plus overhead
	// multipart), supaya file oversize ditolak oleh validasi upload
	// dengan response JSON, bukan 413 dari framework
	app := fiber.New(fiber.Config{
		BodyLimit: upload.MaxFileSize + 1<<20,
	})

	// Middleware
	app.Use(middleware.ErrorHandler(cfg.Env))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	// Daftarkan route API
	api.RegisterRoutes(app, h)

	// File attachment lama yang masih tersimpan lokal
	app.Static("/uploads", "./uploads")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":     "Task Manager API is running",
			"version":     "1.0.0",
			"environment": cfg.Env,
		})
	})

	// WebSocket untuk push event task per user
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", middleware.Protect(h.Users, h.Secret), websocket.New(func(c *websocket.Conn) {
		user := c.Locals(middleware.UserLocal).(*models.User)
		client := &ws.Client{UserID: user.ID, Conn: c}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	logger.SystemLogger.Info("Application ready", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
		log.Fatalf("Application failed to start: %v", err)
	}
}
