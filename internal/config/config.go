package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Transport modes.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
)

type Config struct {
	Server  ServerConfig
	ERDDAP  ERDDAPConfig
	Audit   AuditConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Transport  string
	Host       string
	Port       int
	BaseURL    string // public URL advertised by the SSE transport
	EnableREST bool
}

// ERDDAPConfig configures the shared outbound client.
type ERDDAPConfig struct {
	DefaultURL string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 = unlimited
	RateBurst  int
	UserAgent  string
}

// AuditConfig selects the sinks for the tool-call audit log. Empty values disable a sink.
type AuditConfig struct {
	DuckDBPath  string
	DatabaseURL string
}

type LoggingConfig struct {
	Level    string
	FilePath string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	port, err := getIntEnv("MCP_PORT", 8000)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getFloatEnv("ERDDAP_RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	burst, err := getIntEnv("ERDDAP_RATE_BURST", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Transport:  getEnv("MCP_TRANSPORT", TransportStdio),
			Host:       getEnv("MCP_HOST", "127.0.0.1"),
			Port:       port,
			BaseURL:    os.Getenv("MCP_BASE_URL"),
			EnableREST: getBoolEnv("ENABLE_REST", true),
		},
		ERDDAP: ERDDAPConfig{
			DefaultURL: os.Getenv("ERDDAP_DEFAULT_URL"),
			Timeout:    getDurationEnv("ERDDAP_TIMEOUT", 30*time.Second),
			RateLimit:  rateLimit,
			RateBurst:  burst,
			UserAgent:  os.Getenv("ERDDAP_USER_AGENT"),
		},
		Audit: AuditConfig{
			DuckDBPath:  os.Getenv("AUDIT_DUCKDB_PATH"),
			DatabaseURL: os.Getenv("AUDIT_DATABASE_URL"),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: os.Getenv("LOG_FILE"),
		},
	}
	return cfg, nil
}

// Validate checks the server settings after flags have been applied.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportStreamableHTTP, TransportSSE:
	default:
		return fmt.Errorf("unknown transport %q (want %s, %s or %s)",
			c.Server.Transport, TransportStdio, TransportStreamableHTTP, TransportSSE)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.ERDDAP.Timeout <= 0 {
		return fmt.Errorf("ERDDAP_TIMEOUT must be positive")
	}
	return nil
}

// Addr is the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PublicURL is the base URL clients use to reach the HTTP transports.
func (s ServerConfig) PublicURL() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return "http://" + s.Addr()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
