// Package config provides configuration loading from environment variables.
package config

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/usestring/kintone-mcp/internal/logging"
	"github.com/usestring/kintone-mcp/internal/present"
	"github.com/usestring/kintone-mcp/pkg/client"
)

// Default values shared with flags and tests.
const (
	DefaultAppsFile              = "apps.yaml"
	DefaultSearchWorkersValue    = 4
	DefaultResponseCacheMaxItems = 128
	DefaultResponseMaxBodyBytes  = 1 << 20
	DefaultQueryMaxResultsValue  = 1000
	DefaultHTTPClientTimeout     = 30 * time.Second
)

// Config holds all configuration for the MCP server and CLI.
type Config struct {
	Subdomain string // KINTONE_SUBDOMAIN, e.g. "example" or "kintone.example.com"
	Domain    string // KINTONE_DOMAIN, default "cybozu.com"
	Username  string // KINTONE_USERNAME
	Password  string // KINTONE_PASSWORD
	Auth      string // KINTONE_AUTH, pre-encoded base64("user:password")
	AppsFile  string // KINTONE_APPS_FILE, default "apps.yaml"

	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms (30s)
	SearchWorkers     int           // SEARCH_WORKERS, default 4

	ResponseCacheMaxItems int // RESPONSE_CACHE_MAX_ITEMS, default 128
	ResponseMaxBodyBytes  int // RESPONSE_MAX_BODY_BYTES, default 1 MiB
	QueryMaxResults       int // QUERY_MAX_RESULTS, default 1000

	// Compaction of bodies returned to the model
	CompactMaxArrayItems int  // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int  // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int  // COMPACT_MAX_DEPTH
	CompactFlattenFields bool // COMPACT_FLATTEN_FIELDS, default false

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Subdomain: getEnvString("KINTONE_SUBDOMAIN", ""),
		Domain:    getEnvString("KINTONE_DOMAIN", client.DefaultDomain),
		Username:  getEnvString("KINTONE_USERNAME", ""),
		Password:  getEnvString("KINTONE_PASSWORD", ""),
		Auth:      getEnvString("KINTONE_AUTH", ""),
		AppsFile:  getEnvString("KINTONE_APPS_FILE", DefaultAppsFile),

		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 30000),
		SearchWorkers:     getEnvInt("SEARCH_WORKERS", DefaultSearchWorkersValue),

		ResponseCacheMaxItems: getEnvInt("RESPONSE_CACHE_MAX_ITEMS", DefaultResponseCacheMaxItems),
		ResponseMaxBodyBytes:  getEnvInt("RESPONSE_MAX_BODY_BYTES", DefaultResponseMaxBodyBytes),
		QueryMaxResults:       getEnvInt("QUERY_MAX_RESULTS", DefaultQueryMaxResultsValue),

		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", present.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", present.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", present.DefaultMaxDepth),
		CompactFlattenFields: getEnvBool("COMPACT_FLATTEN_FIELDS", false),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Credential returns the client-level credential described by the
// environment. A username/password pair wins over a pre-encoded value; with
// neither, calls fall back to per-app API tokens. A half-set pair is logged
// and ignored.
func (c *Config) Credential() client.Credential {
	if c.Username != "" && c.Password != "" {
		return client.UserPasswordCredential(c.Username, c.Password)
	}
	if c.HalfSetUserPassword() {
		slog.Warn("KINTONE_USERNAME and KINTONE_PASSWORD must be set together; ignoring the pair",
			"username_set", c.Username != "",
			"password_set", c.Password != "",
		)
	}
	if c.Auth != "" {
		return client.EncodedCredential(c.Auth)
	}
	return client.NoCredential()
}

// HalfSetUserPassword reports whether only one of username and password is set.
func (c *Config) HalfSetUserPassword() bool {
	return (c.Username == "") != (c.Password == "")
}

// LoggingConfig returns the logging settings described by the environment.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

// CompactOptions returns the compaction settings for tool output bodies.
func (c *Config) CompactOptions() *present.Options {
	return &present.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
		FlattenFields: c.CompactFlattenFields,
	}
}

// ClientOptions returns the client options described by the environment:
// credential, domain and a timeout-bound HTTP client.
func (c *Config) ClientOptions() []client.Option {
	return []client.Option{
		client.WithCredential(c.Credential()),
		client.WithDomain(c.Domain),
		client.WithHTTPClient(&http.Client{Timeout: c.HTTPClientTimeout}),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
