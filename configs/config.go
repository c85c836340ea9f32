package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort int

	JWTSecret      string
	AllowedOrigins string

	RateLimitWindow time.Duration
	RateLimitMax    int

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = 5432
	}

	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379
	}

	rateWindowMS, err := strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW_MS"))
	if err != nil || rateWindowMS <= 0 {
		rateWindowMS = 900000 // 15 menit
	}

	rateMax, err := strconv.Atoi(os.Getenv("RATE_LIMIT_MAX"))
	if err != nil || rateMax <= 0 {
		rateMax = 100
	}

	cfg := Config{
		Port:                getEnv("PORT", "5000"),
		Env:                 getEnv("APP_ENV", "development"),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              dbPort,
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		RedisHost:           os.Getenv("REDIS_HOST"),
		RedisPort:           redisPort,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "*"),
		RateLimitWindow:     time.Duration(rateWindowMS) * time.Millisecond,
		RateLimitMax:        rateMax,
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	// Credential wajib ada saat startup, langsung fatal jika kosong.
	if cfg.JWTSecret == "" {
		log.Fatal("Missing required environment variable: JWT_SECRET")
	}
	for _, v := range []string{"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET"} {
		if os.Getenv(v) == "" {
			log.Fatalf("Missing required Cloudinary environment variable: %s", v)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
