package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string `env:"DATABASE_URL"`
	JWTSecretKey string `env:"JWT_SECRET_KEY"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`

	// Redis-релей для рассылки между несколькими инстансами (опционально).
	RedisURL string `env:"REDIS_URL"`

	// Архив в Cloudflare R2 (S3-совместимый). Либо все пять, либо ни одного.
	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MutationRatePerSec float64  `env:"MUTATION_RATE_PER_SEC" envDefault:"10"`
	MutationBurst      int      `env:"MUTATION_BURST" envDefault:"20"`
	BroadcastBuffer    int      `env:"BROADCAST_BUFFER" envDefault:"256"`

	OTELExporterEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
}

// R2Enabled сообщает, настроено ли объектное хранилище.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: .env нужен только локально.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.MutationRatePerSec <= 0 {
		return fmt.Errorf("MUTATION_RATE_PER_SEC must be positive, got %v", c.MutationRatePerSec)
	}
	if c.MutationBurst <= 0 {
		return fmt.Errorf("MUTATION_BURST must be positive, got %d", c.MutationBurst)
	}
	if c.BroadcastBuffer <= 0 {
		return fmt.Errorf("BROADCAST_BUFFER must be positive, got %d", c.BroadcastBuffer)
	}

	r2 := map[string]string{
		"R2_ACCOUNT_ID":        c.R2AccountID,
		"R2_ACCESS_KEY_ID":     c.R2AccessKeyID,
		"R2_SECRET_ACCESS_KEY": c.R2SecretAccessKey,
		"R2_BUCKET_NAME":       c.R2BucketName,
		"R2_PUBLIC_BASE_URL":   c.R2PublicBaseURL,
	}
	var missing, set []string
	for name, v := range r2 {
		if v == "" {
			missing = append(missing, name)
		} else {
			set = append(set, name)
		}
	}
	if len(set) > 0 && len(missing) > 0 {
		sort.Strings(missing)
		return errors.New("R2 storage is partially configured, missing " + strings.Join(missing, ", "))
	}
	return nil
}
