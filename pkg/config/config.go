package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
)

func New() Config {
	return Config{
		BasePath:    requireEnv("BASE_PATH"),
		Environment: getEnvWithDefault("ENVIRONMENT", "production"),
		UIURL:       requireEnv("UI_URL"),
		Logging: logging{
			Level:  getEnvWithDefault("LOG_LEVEL", "info"),
			Pretty: getEnvAsBoolWithDefault("LOG_PRETTY", false),
		},
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		RabbitMqURL: rabbitmq{
			Host:     requireEnv("RABBITMQ_HOST"),
			Port:     requireEnvAsInt("RABBITMQ_PORT"),
			Username: requireEnv("RABBITMQ_USERNAME"),
			Password: requireEnv("RABBITMQ_PASSWORD"),
		},
		Redis: redis{
			Host: requireEnv("REDIS_HOST"),
			Port: requireEnvAsInt("REDIS_PORT"),
		},
		SMTP: smtp{
			Host:     requireEnv("SMTP_HOST"),
			Port:     requireEnvAsInt("SMTP_PORT"),
			Username: requireEnv("SMTP_USERNAME"),
			Password: requireEnv("SMTP_PASSWORD"),
			From:     requireEnv("MAIL_FROM"),
		},
		Authentication: authentication{
			PublicKey: requireEnv("AUTHENTICATION_PUBLIC_KEY"),
		},
		Quota: Quota{
			PublicEventsPerMonth:  getEnvAsIntWithDefault("PUBLIC_EVENTS_PER_MONTH", 10),
			PrivateEventsPerMonth: getEnvAsIntWithDefault("PRIVATE_EVENTS_PER_MONTH", 5),
		},
		Invite: Invite{
			MaxBatchSize: getEnvAsIntWithDefault("INVITE_MAX_BATCH_SIZE", 50),
		},
		Tracing: tracing{
			JaegerEndpoint: getEnvWithDefault("JAEGER_ENDPOINT", ""),
			ServiceName:    getEnvWithDefault("SERVICE_NAME", "event-manager"),
		},
	}
}

type Config struct {
	BasePath       string
	Environment    string
	UIURL          string
	Logging        logging
	Postgresql     Postgresql
	RabbitMqURL    rabbitmq
	Redis          redis
	SMTP           smtp
	Authentication authentication
	Quota          Quota
	Invite         Invite
	Tracing        tracing
}

type logging struct {
	Level  string
	Pretty bool
}

// SlogLevel returns the configured level or info if it can't be parsed.
func (l logging) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type rabbitmq struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (r rabbitmq) GetUrl() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

type redis struct {
	Host string
	Port int
}

type smtp struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type authentication struct {
	PublicKey string
}

// GetPublicKey parses the PEM encoded RSA public key access tokens are verified with.
func (a authentication) GetPublicKey() (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(a.PublicKey))
	if block == nil {
		return nil, errors.New("failed to decode authentication public key")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authentication public key: %v", err)
	}

	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("authentication public key is not an RSA key: %T", key)
	}
	return publicKey, nil
}

// Quota holds how many events a user without unlimited access may create per calendar month.
type Quota struct {
	PublicEventsPerMonth  int
	PrivateEventsPerMonth int
}

type Invite struct {
	MaxBatchSize int
}

type tracing struct {
	JaegerEndpoint string
	ServiceName    string
}

func requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Can't find environment variable: %s\n", key)
	}
	return value
}

func requireEnvAsInt(key string) int {
	valueStr := requireEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func getEnvWithDefault(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse %s as integer: %s", key, err.Error())
	}
	return value
}

func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("Can't parse %s as bool: %s", key, err.Error())
	}
	return value
}
