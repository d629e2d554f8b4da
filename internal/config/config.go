// Package config loads ollama-boolean configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (OLLAMA_BOOLEAN_*, OLLAMA_HOST, OTEL_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .ollama-boolean.yaml in current directory
//  2. ~/.config/ollama-boolean/config.yaml
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultOllamaPort is the port Ollama listens on when OLLAMA_HOST omits one.
const DefaultOllamaPort = "11434"

// Config holds all ollama-boolean configuration.
type Config struct {
	// Backend settings
	Provider  string `yaml:"provider"` // "openai" (OpenAI-compatible) or "anthropic"
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int64  `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"` // Go duration string, e.g. "2m"; "0"/"off" disables
	Headers   string `yaml:"headers"` // Extra request headers, comma-separated key=value pairs

	// Logging (verbose mode only)
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// Parsed values (not from YAML, set after loading)
	TimeoutDuration time.Duration     `yaml:"-"`
	Level           slog.Level        `yaml:"-"`
	HeaderMap       map[string]string `yaml:"-"`
	OTELHeaderMap   map[string]string `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Provider: "openai",
		APIKey:   "ollama",
		Timeout:  "2m",
		LogLevel: "info",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "openai", "anthropic":
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: openai, anthropic)", cfg.Provider)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Provider, os.Getenv("OLLAMA_HOST"))
	}

	var err error
	cfg.TimeoutDuration, err = parseDurationOrDisable(cfg.Timeout, 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
	}

	if err := cfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	cfg.HeaderMap = ParseHeaders(cfg.Headers)
	cfg.OTELHeaderMap = ParseHeaders(cfg.OTELHeaders)

	return cfg, nil
}

// ParseHeaders parses a comma-separated "key=value,key2=value2" string into a map.
// This matches the OTEL_EXPORTER_OTLP_HEADERS format. Pairs without a key or
// without "=" are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	if raw == "" {
		return headers
	}
	for _, pair := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		key = strings.TrimSpace(key)
		if ok && key != "" {
			headers[key] = strings.TrimSpace(val)
		}
	}
	return headers
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".ollama-boolean.yaml"); err == nil {
		return ".ollama-boolean.yaml", data, nil
	}

	// 2. ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "ollama-boolean", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Provider != "" {
		cfg.Provider = file.Provider
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if file.MaxTokens > 0 {
		cfg.MaxTokens = file.MaxTokens
	}
	if file.Timeout != "" {
		cfg.Timeout = file.Timeout
	}
	if file.Headers != "" {
		cfg.Headers = file.Headers
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) error {
	if v := os.Getenv("OLLAMA_BOOLEAN_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("OLLAMA_BOOLEAN_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_BOOLEAN_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("OLLAMA_BOOLEAN_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid OLLAMA_BOOLEAN_MAX_TOKENS %q: %w", v, err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("OLLAMA_BOOLEAN_TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv("OLLAMA_BOOLEAN_HEADERS"); v != "" {
		cfg.Headers = v
	}
	if v := os.Getenv("OLLAMA_BOOLEAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
	return nil
}

// defaultBaseURL derives the backend endpoint from OLLAMA_HOST.
// The OpenAI-compatible API lives under /v1; the Anthropic SDK appends
// /v1/messages itself and so gets the bare host.
func defaultBaseURL(provider, ollamaHost string) string {
	host := OllamaHostURL(ollamaHost)
	if provider == "openai" {
		return host + "/v1"
	}
	return host
}

// OllamaHostURL normalizes an OLLAMA_HOST value ("host", "host:port",
// ":port", or a full URL) into a base URL without trailing slash.
// An empty value yields http://localhost:11434.
func OllamaHostURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "http://localhost:" + DefaultOllamaPort
	}

	scheme := "http"
	if i := strings.Index(raw, "://"); i != -1 {
		scheme, raw = raw[:i], raw[i+3:]
	}
	path := ""
	if i := strings.Index(raw, "/"); i != -1 {
		raw, path = raw[:i], raw[i:]
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		// No port present. JoinHostPort re-adds IPv6 brackets.
		host, port = strings.Trim(raw, "[]"), DefaultOllamaPort
		if scheme == "https" {
			port = "443"
		}
	}
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return scheme + "://" + net.JoinHostPort(host, port) + path
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
