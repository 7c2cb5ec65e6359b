package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Minio    MinioConfig
	Upload   UploadConfig
	Access   AccessConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type MinioConfig struct {
	Endpoint                  string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName                string        `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey                 string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey                 string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	DownloadSignedURLDuration time.Duration `envconfig:"MINIO_DOWNLOAD_SIGNED_URL_DURATION" default:"15m"`
	UseSSL                    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxTotalSize int64         `envconfig:"UPLOAD_MAX_TOTAL_SIZE" default:"5368709120"` // 5GB
	MaxChunkSize int64         `envconfig:"UPLOAD_MAX_CHUNK_SIZE" default:"104857600"`  // 100MB
	SessionTTL   time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"24h"`
	LockTimeout  time.Duration `envconfig:"UPLOAD_LOCK_TIMEOUT" default:"5s"`
	SweepEvery   time.Duration `envconfig:"UPLOAD_SWEEP_EVERY" default:"1h"`
}

type AccessConfig struct {
	TokenSecret string        `envconfig:"ACCESS_TOKEN_SECRET" required:"true"`
	GrantTTL    time.Duration `envconfig:"ACCESS_GRANT_TTL" default:"15m"`
}

type NATSConfig struct {
	URL        string `envconfig:"NATS_URL" required:"true"`
	StreamName string `envconfig:"NATS_STREAM_NAME" default:"CHUNKVAULT"`
	Subject    string `envconfig:"NATS_SUBJECT" default:"chunkvault.sessions"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
