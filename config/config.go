// ABOUTME: Configuration loader for the study-portal CLI
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// DefaultAPIURL is the backend address used when nothing else is configured
const DefaultAPIURL = "http://localhost:8000"

// Credentials is a username/password pair used by the smoke-test harness
type Credentials struct {
	Username string
	Password string
}

type Config struct {
	// Backend
	APIURL   string
	Timeout  time.Duration // per-request timeout, default 30s
	AllProxy string        // optional ssh+socks5://user@host:port?private-key=/path

	// Session persistence
	SessionStore     string // file, memory, redis (default: file)
	SessionFile      string
	SessionSecret    string // optional, seals the session file
	SessionNamespace string // redis key namespace (default: default)
	SessionTTL       time.Duration
	RedisURL         string

	// Harness accounts, one per role
	TeacherCredentials Credentials
	StudentCredentials Credentials

	// ConfigDir holds the session file and TUI debug log
	ConfigDir string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configDir := DefaultConfigDir()

	cfg := &Config{
		APIURL:   ensureScheme(getEnv("STUDY_PORTAL_API_URL", DefaultAPIURL)),
		Timeout:  time.Duration(getEnvInt("STUDY_PORTAL_TIMEOUT", 30)) * time.Second,
		AllProxy: os.Getenv("STUDY_PORTAL_ALL_PROXY"),

		SessionStore:     strings.ToLower(getEnv("STUDY_PORTAL_SESSION_STORE", StoreFile)),
		SessionFile:      getEnv("STUDY_PORTAL_SESSION_FILE", filepath.Join(configDir, "session.json")),
		SessionSecret:    os.Getenv("STUDY_PORTAL_SESSION_SECRET"),
		SessionNamespace: getEnv("STUDY_PORTAL_SESSION_NAMESPACE", "default"),
		SessionTTL:       time.Duration(getEnvInt("STUDY_PORTAL_SESSION_TTL", 0)) * time.Second,
		RedisURL:         os.Getenv("STUDY_PORTAL_REDIS_URL"),

		TeacherCredentials: Credentials{
			Username: getEnv("STUDY_PORTAL_TEACHER_USERNAME", "test_teacher"),
			Password: getEnv("STUDY_PORTAL_TEACHER_PASSWORD", "test123"),
		},
		StudentCredentials: Credentials{
			Username: getEnv("STUDY_PORTAL_STUDENT_USERNAME", "test_student"),
			Password: getEnv("STUDY_PORTAL_STUDENT_PASSWORD", "test123"),
		},

		ConfigDir: configDir,
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("STUDY_PORTAL_TIMEOUT must be positive, got %s", cfg.Timeout)
	}

	switch cfg.SessionStore {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("STUDY_PORTAL_REDIS_URL is required when STUDY_PORTAL_SESSION_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("invalid STUDY_PORTAL_SESSION_STORE: %q (must be file, memory, or redis)", cfg.SessionStore)
	}

	if cfg.AllProxy != "" && !strings.HasPrefix(cfg.AllProxy, "ssh+socks5://") {
		return nil, fmt.Errorf("STUDY_PORTAL_ALL_PROXY must use ssh+socks5:// scheme")
	}

	return cfg, nil
}

// DefaultConfigDir returns the config directory following XDG base directory rules
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "study-portal")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".study-portal"
	}
	return filepath.Join(home, ".config", "study-portal")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	url = strings.TrimRight(url, "/")
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
