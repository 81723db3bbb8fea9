// Package config loads application configuration from environment
// variables. A .env file in the working directory is read first when one
// exists; variables already set in the environment win over it.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Oloap008/Trello-Clone/internal/database"
)

// Config holds all runtime configuration values.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	Storage   StorageConfig
	Auth      AuthConfig
	Queue     QueueConfig
	RateLimit RateLimitConfig
}

// StorageConfig selects where the document and sessions are kept.
type StorageConfig struct {
	Backend string // memory, file, redis, mysql, postgres or sqlite3
	Dir     string // directory of the file backend
	DSN     string // data source name of the SQL backends
	Prefix  string // key prefix of the redis backend
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int
	// Latency is added before every credential check.
	Latency time.Duration
	// Admins lists the emails allowed to export, import and reset the
	// whole document over HTTP.
	Admins []string
}

// QueueConfig configures activity publishing. An empty URL disables
// RabbitMQ; activities still reach in-process subscribers.
type QueueConfig struct {
	URL    string
	Name   string
	Buffer int
	// LogDir, when set, runs a consumer writing activity.log there.
	LogDir string
}

// Load reads configuration values from the environment. JWT_SECRET is
// required; a missing value stops the program.
func Load() Config {
	loadDotEnv()
	cfg := Config{
		Env:     envStr("APP_ENV", "dev"),
		Port:    envStr("APP_PORT", "8080"),
		Storage: LoadStorage(),
		Auth: AuthConfig{
			JWTSecret:  must("JWT_SECRET"),
			SessionTTL: envDur("SESSION_TTL", 24*time.Hour),
			BcryptCost: envInt("BCRYPT_COST", 10),
			Latency:    envDur("AUTH_LATENCY", 0),
			Admins:     envList("ADMIN_EMAILS"),
		},
		Queue: QueueConfig{
			URL:    os.Getenv("RABBITMQ_URL"),
			Name:   envStr("ACTIVITY_QUEUE", "card.activity"),
			Buffer: envInt("ACTIVITY_BUFFER", 256),
			LogDir: os.Getenv("ACTIVITY_LOG_DIR"),
		},
		RateLimit: LoadRateLimitConfig(),
	}
	return cfg
}

// LoadStorage reads only the storage settings. It does not require
// JWT_SECRET, so tools that never issue tokens can use it.
func LoadStorage() StorageConfig {
	loadDotEnv()
	sc := StorageConfig{
		Backend: envStr("STORAGE_BACKEND", "memory"),
		Dir:     envStr("STORAGE_DIR", "data"),
		DSN:     os.Getenv("STORAGE_DSN"),
		Prefix:  envStr("STORAGE_PREFIX", "taskify:"),
	}
	if sc.Backend == "mysql" && sc.DSN == "" {
		sc.DSN = mysqlDSNFromEnv()
	}
	return sc
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
}

// mysqlDSNFromEnv builds a DSN from the discrete DB_* variables.
func mysqlDSNFromEnv() string {
	return database.MySQLDSN(
		envStr("DB_USER", "root"),
		os.Getenv("DB_PASS"),
		envStr("DB_HOST", "127.0.0.1"),
		envStr("DB_PORT", "3306"),
		envStr("DB_NAME", "taskify"),
	)
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

// envList splits a comma-separated variable, dropping blank entries.
func envList(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, strings.ToLower(v))
		}
	}
	return out
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
