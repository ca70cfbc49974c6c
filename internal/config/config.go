// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Auth   AuthConfig
	Search SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "text"; empty picks by environment
}

// DataConfig holds on-disk storage configuration.
type DataConfig struct {
	// BasePath holds the SQLite database, the token key and the search index.
	BasePath string
}

// DatabasePath returns the SQLite database file path.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.BasePath, "catalog.db")
}

// KeyPath returns the token encryption key file path.
func (d DataConfig) KeyPath() string {
	return filepath.Join(d.BasePath, "auth.key")
}

// SearchIndexPath returns the bleve index directory.
func (d DataConfig) SearchIndexPath() string {
	return filepath.Join(d.BasePath, "search")
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string      // Origins allowed by CORS (default: *)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// TokenDuration is the bearer token lifetime. Zero means tokens never expire.
	TokenDuration time.Duration
	// LoginRatePerMinute caps login attempts per client IP.
	LoginRatePerMinute int
	// LoginRateBurst allows short bursts above the steady rate.
	LoginRateBurst int
}

// SearchConfig holds full-text search configuration.
type SearchConfig struct {
	Enabled bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (json, text; default: json in production)")
	dataPath := flag.String("data-path", "", "Directory for the database, token key and search index")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma separated CORS origins (default: *)")

	tokenDuration := flag.String("token-duration", "", "Bearer token lifetime, 0 for no expiry (default: 0)")
	loginRate := flag.String("login-rate", "", "Login attempts per minute per IP (default: 10)")
	loginBurst := flag.String("login-burst", "", "Login burst size (default: 5)")

	searchEnabled := flag.String("search-enabled", "", "Enable full-text book search (default: true)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	return build(configFlags{
		env:           *env,
		logLevel:      *logLevel,
		logFormat:     *logFormat,
		dataPath:      *dataPath,
		serverPort:    *serverPort,
		readTimeout:   *readTimeout,
		writeTimeout:  *writeTimeout,
		idleTimeout:   *idleTimeout,
		corsOrigins:   *corsOrigins,
		tokenDuration: *tokenDuration,
		loginRate:     *loginRate,
		loginBurst:    *loginBurst,
		searchEnabled: *searchEnabled,
	})
}

// configFlags carries raw flag values into build so tests can skip flag parsing.
type configFlags struct {
	env           string
	logLevel      string
	logFormat     string
	dataPath      string
	serverPort    string
	readTimeout   string
	writeTimeout  string
	idleTimeout   string
	corsOrigins   string
	tokenDuration string
	loginRate     string
	loginBurst    string
	searchEnabled string
}

func build(f configFlags) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(f.env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(f.logLevel, "LOG_LEVEL", "info"),
			Format: strings.ToLower(getConfigValue(f.logFormat, "LOG_FORMAT", "")),
		},
		Data: DataConfig{
			BasePath: getConfigValue(f.dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(f.serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(f.corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			LoginRatePerMinute: getIntConfigValue(f.loginRate, "LOGIN_RATE_PER_MINUTE", 10),
			LoginRateBurst:     getIntConfigValue(f.loginBurst, "LOGIN_RATE_BURST", 5),
		},
		Search: SearchConfig{
			Enabled: getBoolConfigValue(f.searchEnabled, "SEARCH_ENABLED", true),
		},
	}

	durations := []struct {
		raw    string
		envKey string
		def    string
		name   string
		dst    *time.Duration
	}{
		{f.tokenDuration, "TOKEN_DURATION", "0", "token duration", &cfg.Auth.TokenDuration},
		{f.readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout", &cfg.Server.ReadTimeout},
		{f.writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", "write timeout", &cfg.Server.WriteTimeout},
		{f.idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		s := getConfigValue(d.raw, d.envKey, d.def)
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, s, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "" && c.Logger.Format != "json" && c.Logger.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Auth.TokenDuration < 0 {
		return fmt.Errorf("token duration cannot be negative: %s", c.Auth.TokenDuration)
	}

	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("login rate must be positive: %d", c.Auth.LoginRatePerMinute)
	}

	if c.Auth.LoginRateBurst <= 0 {
		return fmt.Errorf("login burst must be positive: %d", c.Auth.LoginRateBurst)
	}

	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/Catalog/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Catalog", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars already set take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
