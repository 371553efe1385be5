package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Storage StorageConfig `yaml:"storage"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Retry   RetryConfig   `yaml:"retry"`
	Upload  UploadConfig  `yaml:"upload"`
	Worker  WorkerConfig  `yaml:"worker"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"interior_media"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

type StorageConfig struct {
	Endpoint      string        `yaml:"endpoint" env:"STORAGE_ENDPOINT" env-default:"localhost:9000"`
	AccessKey     string        `yaml:"access_key" env:"STORAGE_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey     string        `yaml:"secret_key" env:"STORAGE_SECRET_KEY" env-default:"minioadmin"`
	Bucket        string        `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"interior-images"`
	UseSSL        bool          `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
	PublicBaseURL string        `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL" env-default:"http://localhost:9000/interior-images"`
	PresignExpiry time.Duration `yaml:"presign_expiry" env:"STORAGE_PRESIGN_EXPIRY" env-default:"15m"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	StatusTopic string   `yaml:"status_topic" env:"KAFKA_STATUS_TOPIC" env-default:"image-status"`
	GroupID     string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"interior-media-watcher"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"500ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

type UploadConfig struct {
	MaxRetries int           `yaml:"max_retries" env:"UPLOAD_MAX_RETRIES" env-default:"3"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"UPLOAD_RETRY_DELAY" env-default:"1s"`
}

type WorkerConfig struct {
	PendingTTL    time.Duration `yaml:"pending_ttl" env:"WORKER_PENDING_TTL" env-default:"30m"`
	CheckInterval time.Duration `yaml:"check_interval" env:"WORKER_CHECK_INTERVAL" env-default:"1m"`
}

func MustLoad() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
