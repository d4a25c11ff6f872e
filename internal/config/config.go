package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          int      `envconfig:"PORT" default:"8801"`
	Host          string   `envconfig:"HOST" default:"0.0.0.0"`
	DataPath      string   `envconfig:"DATA_PATH" default:"./data"`
	DBPath        string   `envconfig:"DB_PATH"`
	JWTSecret     string   `envconfig:"JWT_SECRET"`
	AdminUsername string   `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string   `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`

	RedisURL     string `envconfig:"REDIS_URL"`
	RedisChannel string `envconfig:"REDIS_CHANNEL" default:"youtube-dj:events"`
	OEmbedURL    string `envconfig:"OEMBED_URL" default:"https://www.youtube.com/oembed"`

	IntakeWorkers    int           `envconfig:"INTAKE_WORKERS" default:"4"`
	HistoryLimit     int           `envconfig:"HISTORY_LIMIT" default:"0"`
	RequestRateLimit int           `envconfig:"REQUEST_RATE_LIMIT" default:"30"`
	RateLimitWindow  time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// GeneratedSecret is set when JWT_SECRET was empty and a random one was made.
	GeneratedSecret bool `ignored:"true"`
}

// Load reads the environment. Without JWT_SECRET a random secret is
// generated, so admin sessions do not survive a restart.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataPath, "youtube-dj.db")
	}

	if cfg.JWTSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b)
		cfg.GeneratedSecret = true
	}

	origins := make([]string, 0, len(cfg.CORSOrigins))
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg.CORSOrigins = origins

	if cfg.IntakeWorkers < 1 {
		return nil, fmt.Errorf("INTAKE_WORKERS must be at least 1, got %d", cfg.IntakeWorkers)
	}
	if cfg.HistoryLimit < 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must not be negative, got %d", cfg.HistoryLimit)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimitWindow)
	}
	if cfg.RequestRateLimit < 1 {
		return nil, fmt.Errorf("REQUEST_RATE_LIMIT must be at least 1, got %d", cfg.RequestRateLimit)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
