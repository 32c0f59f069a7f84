package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BaseURL is the public origin of this service, used in email links and
	// when resolving stored upload filenames to URLs.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	Auth    AuthConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
	Uploads UploadConfig
	Sweep   SweepConfig
}

type AuthConfig struct {
	// The access and refresh secrets must differ so one token kind can never
	// pass verification as the other.
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM, default=no-reply@localhost"`
	Workers  int    `env:"MAIL_WORKERS, default=4"`
}

type UploadConfig struct {
	TempDir      string `env:"UPLOAD_TEMP_DIR,  default=uploads/tmp"`
	AvatarDir    string `env:"UPLOAD_AVATAR_DIR, default=uploads/avatars"`
	PostImageDir string `env:"UPLOAD_POST_DIR,  default=uploads/posts"`
	MaxSizeBytes int64  `env:"UPLOAD_MAX_BYTES, default=5242880"`
}

type SweepConfig struct {
	// UnverifiedRetention is how long an unverified account may linger before
	// the background sweep removes it.
	UnverifiedRetention time.Duration `env:"UNVERIFIED_RETENTION, default=72h"`
	Interval            time.Duration `env:"SWEEP_INTERVAL,       default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}
	if cfg.Auth.AccessSecret == cfg.Auth.RefreshSecret {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return &cfg, nil
}
