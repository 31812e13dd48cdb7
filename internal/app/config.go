package app

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	HTTPAddr string

	// ContentFile, when set, replaces the built-in course with a YAML or JSON file.
	ContentFile string
	// ContentDSN, when set, loads the course from Postgres. It wins over ContentFile.
	ContentDSN        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifeMins int

	CSRFEnforced        bool
	QuizRateLimitPerMin int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func LoadConfig() Config {
	return Config{
		AppEnv:              envOrDefault("APP_ENV", "development"),
		HTTPAddr:            listenAddr(),
		ContentFile:         strings.TrimSpace(os.Getenv("CONTENT_FILE")),
		ContentDSN:          strings.TrimSpace(os.Getenv("CONTENT_DSN")),
		DBMaxOpenConns:      intOrDefault("DB_MAX_OPEN_CONNS", 4),
		DBMaxIdleConns:      intOrDefault("DB_MAX_IDLE_CONNS", 2),
		DBConnMaxLifeMins:   intOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		CSRFEnforced:        boolOrDefault("CSRF_ENFORCED", false),
		QuizRateLimitPerMin: intOrDefault("QUIZ_RATE_LIMIT_PER_MINUTE", 60),
		ReadTimeout:         time.Duration(intOrDefault("HTTP_READ_TIMEOUT_SECONDS", 10)) * time.Second,
		WriteTimeout:        time.Duration(intOrDefault("HTTP_WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
		ShutdownTimeout:     time.Duration(intOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// listenAddr honours HOST/PORT when either is set, otherwise HTTP_ADDR.
func listenAddr() string {
	host := strings.TrimSpace(os.Getenv("HOST"))
	port := strings.TrimSpace(os.Getenv("PORT"))
	if host == "" && port == "" {
		return envOrDefault("HTTP_ADDR", ":8080")
	}
	if port == "" {
		port = "8080"
	}
	return net.JoinHostPort(host, port)
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsToInt(v string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n
}

func intOrDefault(key string, fallback int) int {
	v := stringsToInt(os.Getenv(key))
	if v <= 0 {
		return fallback
	}
	return v
}

func boolOrDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
