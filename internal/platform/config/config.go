package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. All values are opaque to the domain logic.
type Config struct {
	Addr    string
	BaseURL string // public base URL for links embedded in emails

	DatabaseURL string // empty means in-memory stores
	Redis       RedisConfig
	Kafka       KafkaConfig
	Mail        MailConfig

	JWTSigningKey  string
	SessionTTL     time.Duration
	RemindInterval time.Duration // minimum gap between reminders per referent
}

// RedisConfig holds connection settings for the shared Redis instance.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the lifecycle event stream settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MailConfig holds the outbound email API settings.
type MailConfig struct {
	Endpoint string
	APIKey   string
	From     string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("NDOORS_ADDR", ":8080"),
		BaseURL:     envOr("NDOORS_BASE_URL", "http://localhost:8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: envOr("KAFKA_LIFECYCLE_TOPIC", "ndoors.referent-lifecycle"),
		},
		Mail: MailConfig{
			Endpoint: envOr("MAIL_API_URL", "https://api.resend.com/emails"),
			APIKey:   os.Getenv("MAIL_API_KEY"),
			From:     envOr("MAIL_FROM", "Ndoors <no-reply@mail.ndoors.se>"),
		},
		JWTSigningKey:  envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:     12 * time.Hour,
		RemindInterval: time.Hour,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
