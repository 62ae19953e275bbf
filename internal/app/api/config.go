package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-marketplace/internal/clients/http/cloudinary"
	platformkafka "github.com/Apurer/go-gin-marketplace/internal/platform/kafka"
)

const (
	ImageStoreLocal      = "local"
	ImageStoreCloudinary = "cloudinary"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                 string
	PostgresDSN          string
	RedisAddr            string
	KafkaBrokers         []string
	KafkaOrdersTopic     string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	JWTSecret            string
	JWTTTL               time.Duration
	SessionPurgeInterval time.Duration
	ImageStore           string
	UploadDir            string
	ImageFolder          string
	Cloudinary           cloudinary.Config
	IdempotencyTTL       time.Duration
	CORSAllowedOrigins   []string
}

// LoadConfig reads the API settings. On top of LoadBackendConfig it requires JWT_SECRET.
func LoadConfig() (Config, error) {
	cfg, err := LoadBackendConfig()
	if err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// LoadBackendConfig reads an optional .env file and the environment, applies defaults, and
// validates basic constraints. Workers and jobs that never issue tokens use it directly.
func LoadBackendConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:       platformkafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaOrdersTopic:   envDefault("KAFKA_ORDERS_TOPIC", "orders.placed"),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		ImageStore:         strings.ToLower(envDefault("IMAGE_STORE", ImageStoreLocal)),
		UploadDir:          envDefault("UPLOAD_DIR", "uploads"),
		ImageFolder:        envDefault("IMAGE_FOLDER", "multi-vendor-app-products"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Cloudinary: cloudinary.Config{
			CloudName: strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
			APIKey:    strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
			APISecret: strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
		},
	}

	var err error
	if cfg.JWTTTL, err = positiveDuration("JWT_TTL_MINUTES", time.Minute, 60); err != nil {
		return Config{}, err
	}
	if cfg.SessionPurgeInterval, err = positiveDuration("SESSION_PURGE_INTERVAL_MINUTES", time.Minute, 0); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = positiveDuration("IDEMPOTENCY_TTL_HOURS", time.Hour, 24); err != nil {
		return Config{}, err
	}

	switch cfg.ImageStore {
	case ImageStoreLocal:
	case ImageStoreCloudinary:
		if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.APIKey == "" || cfg.Cloudinary.APISecret == "" {
			return Config{}, errors.New("IMAGE_STORE=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return Config{}, fmt.Errorf("IMAGE_STORE must be %q or %q", ImageStoreLocal, ImageStoreCloudinary)
	}
	return cfg, nil
}

// positiveDuration reads an integer count of unit; fallback applies when the variable is unset.
func positiveDuration(key string, unit time.Duration, fallback int) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(fallback) * unit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

// splitList parses a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
