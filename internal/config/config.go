// Package config
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string
	LogFormat string

	ProcRoot       string        `validate:"required"`
	SysRoot        string        `validate:"required"`
	MaxCPUs        int           `validate:"min=1,max=1024"`
	UpdateInterval time.Duration `validate:"gt=0"`
	LoadEvery      int           `validate:"min=1"`

	Address        string
	AllowedOrigins []string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	RedisDB       int    `validate:"min=0"`
	RedisStream   string `validate:"required_with=RedisAddress"`
	RedisMaxLen   int64  `validate:"min=0"`

	AgentTargetWsURL string `validate:"omitempty,url"`
	AgentAPIToken    string `validate:"required_with=AgentTargetWsURL"`
	AgentID          uuid.UUID
}

var validate = validator.New()

func Load() *Config {
	_ = godotenv.Load()

	// Logs
	logLevel := getEnv("LOG_LEVEL", "info")
	logFormat := getEnv("LOG_FORMAT", "text")

	// Counter sources
	procRoot := getEnv("CPUGAUGE_PROC_ROOT", "/proc")
	sysRoot := getEnv("CPUGAUGE_SYS_ROOT", "/sys")
	maxCPUs := getEnvInt("CPUGAUGE_MAX_CPUS", 32)

	// Polling cadence
	updateInterval := time.Second
	if raw := os.Getenv("CPUGAUGE_UPDATE_INTERVAL"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil && duration > 0 {
			updateInterval = duration
		}
	}
	loadEvery := getEnvInt("CPUGAUGE_LOAD_EVERY", 5)

	// HTTP Address
	addr := getEnv("HTTP_ADDR", ":3000")
	allowedOrigins := splitList(os.Getenv("ALLOWED_ORIGINS"))

	// Redis
	redisAddress := os.Getenv("REDIS_ADDR")
	redisUsername := os.Getenv("REDIS_USERNAME")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvInt("REDIS_DB", 0)
	redisStream := getEnv("CPUGAUGE_REDIS_STREAM", "cpugauge:readings")
	redisMaxLen := int64(getEnvInt("CPUGAUGE_REDIS_MAXLEN", 1000))

	// Websocket reporter
	agentTargetWsURL := os.Getenv("CPUGAUGE_WS_URL")
	agentAPIToken := os.Getenv("CPUGAUGE_API_TOKEN")
	agentID := uuid.New()
	if raw := os.Getenv("CPUGAUGE_AGENT_ID"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			agentID = id
		}
	}

	return &Config{
		LogLevel:  logLevel,
		LogFormat: logFormat,

		ProcRoot:       procRoot,
		SysRoot:        sysRoot,
		MaxCPUs:        maxCPUs,
		UpdateInterval: updateInterval,
		LoadEvery:      loadEvery,

		Address:        addr,
		AllowedOrigins: allowedOrigins,

		RedisAddress:  redisAddress,
		RedisUsername: redisUsername,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,
		RedisStream:   redisStream,
		RedisMaxLen:   redisMaxLen,

		AgentTargetWsURL: agentTargetWsURL,
		AgentAPIToken:    agentAPIToken,
		AgentID:          agentID,
	}
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required", "required_with":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", fe.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}

	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
