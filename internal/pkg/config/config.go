package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string `env:"PORT,             default=8080"`
	Env            string `env:"ENV,              default=development"`
	LogLevel       string `env:"LOG_LEVEL,        default=info"`
	JWTSecret      string `env:"JWT_SECRET"`
	AdminAccessKey string `env:"ADMIN_ACCESS_KEY"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Storage  StorageConfig
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/workorders?sslmode=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// StorageConfig selects the artifact backend at deployment time: "local"
// keeps files under LocalPath, "s3" stores objects remotely and serves
// downloads through presigned URLs valid for SignedURLTTL.
type StorageConfig struct {
	Backend      string        `env:"STORAGE_BACKEND,    default=local"`
	LocalPath    string        `env:"STORAGE_LOCAL_PATH, default=uploads"`
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL,     default=1h"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION,   default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
