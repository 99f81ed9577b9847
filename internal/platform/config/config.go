// Package config reads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"residentportal/pkg/platform/strings"
)

// Server captures process-wide configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	AddressAPI  AddressAPIConfig
	Auth        AuthConfig
	Intake      IntakeConfig
}

// RedisConfig configures the reference address cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the pending-review notification topic. No brokers
// means notifications are only logged.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AddressAPIConfig points at the external address reference service.
type AddressAPIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// AuthConfig holds resident token and administrator token settings.
type AuthConfig struct {
	JWTSigningKey  string
	Issuer         string
	Audience       string
	AdminTokenHash string
}

// IntakeConfig tunes the intake workflow.
type IntakeConfig struct {
	PollInterval    time.Duration
	ZonedBarangay   string
	NotifyQueueSize int
}

// IsProduction reports whether the server runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        getEnv("RESIDENT_PORTAL_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: strings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "profile.pending_review"),
		},
		AddressAPI: AddressAPIConfig{
			BaseURL:  os.Getenv("ADDRESS_API_URL"),
			Timeout:  getDuration("ADDRESS_API_TIMEOUT", 5*time.Second),
			CacheTTL: getDuration("ADDRESS_CACHE_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			// Development default; override in production.
			JWTSigningKey:  getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:         getEnv("JWT_ISSUER", "residentportal"),
			Audience:       getEnv("JWT_AUDIENCE", "residentportal"),
			AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		},
		Intake: IntakeConfig{
			PollInterval:    getDuration("INTAKE_POLL_INTERVAL", 5*time.Second),
			ZonedBarangay:   os.Getenv("INTAKE_ZONED_BARANGAY"),
			NotifyQueueSize: getInt("INTAKE_NOTIFY_QUEUE_SIZE", 64),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
