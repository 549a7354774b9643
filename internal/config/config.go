package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all modcatalog configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	StaticDir      string   `yaml:"static_dir"` // prebuilt frontend, empty = don't serve
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig configures catalog persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	StateKey     string `yaml:"state_key"`
}

// UploadConfig configures the admin attach path.
type UploadConfig struct {
	EndpointURL  string `yaml:"endpoint_url"`
	Timeout      string `yaml:"timeout"`
	AdminModID   int    `yaml:"admin_mod_id"`
	MaxFileBytes int64  `yaml:"max_file_bytes"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty = stderr only
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			StaticDir:      "../frontend/dist",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Storage: StorageConfig{
			DatabasePath: "./modcatalog.db",
			StateKey:     "modFiles",
		},
		Upload: UploadConfig{
			EndpointURL:  "http://localhost:8080/api/upload-file",
			Timeout:      "60s",
			AdminModID:   7,
			MaxFileBytes: 64 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("MODCATALOG_UPLOAD_URL"); v != "" {
		c.Upload.EndpointURL = v
	}
	if v := os.Getenv("MODCATALOG_ADMIN_MOD_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			c.Upload.AdminModID = id
		}
	}
	if v := os.Getenv("MODCATALOG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetUploadTimeout returns the upload request timeout. "0s" disables it.
func (c *Config) GetUploadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Upload.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	if c.Storage.StateKey == "" {
		return fmt.Errorf("storage.state_key is required")
	}
	if c.Upload.EndpointURL == "" {
		return fmt.Errorf("upload.endpoint_url is required")
	}
	if c.Upload.Timeout != "" {
		if d, err := time.ParseDuration(c.Upload.Timeout); err != nil || d < 0 {
			return fmt.Errorf("upload.timeout %q is not a valid duration", c.Upload.Timeout)
		}
	}
	if c.Upload.MaxFileBytes < 0 {
		return fmt.Errorf("upload.max_file_bytes must not be negative")
	}
	return nil
}
