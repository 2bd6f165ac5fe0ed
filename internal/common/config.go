package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Cache       CacheConfig     `toml:"cache"`
	Registry    RegistryConfig  `toml:"registry"`
	Source      SourceConfig    `toml:"source"`
	Output      OutputConfig    `toml:"output"`
	S3          S3Config        `toml:"s3"`
	Storage     StorageConfig   `toml:"storage"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port        int      `toml:"port" validate:"gt=0,lte=65535"`
	Host        string   `toml:"host" validate:"required"`
	CORSOrigins []string `toml:"cors_origins"` // Allowed Origin values; empty = allow all
}

// CacheConfig controls the serve-path TTL cache gate.
type CacheConfig struct {
	TTL string `toml:"ttl"` // Duration string, e.g. "5m"
}

// TTLDuration parses the configured TTL, falling back to 5 minutes.
func (c CacheConfig) TTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return 5 * time.Minute
}

// RegistryConfig locates the durable registry file and controls the advisory
// new-entry handling.
type RegistryConfig struct {
	Path       string `toml:"path" validate:"required"`
	AutoAppend bool   `toml:"auto_append"` // Append scaffold entries for unknown identifiers
	ReportPath string `toml:"report_path"` // Human-reviewable new-entries report
}

type SourceConfig struct {
	Type     string         `toml:"type" validate:"oneof=database excel"`
	Database DatabaseConfig `toml:"database"`
	Excel    ExcelConfig    `toml:"excel"`
}

type DatabaseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Name     string `toml:"name"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
}

// DSN returns the connection string in key/value form for the pgx stdlib
// driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode)
}

type ExcelConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"` // Empty = first sheet in the workbook
}

type OutputConfig struct {
	Path string `toml:"path" validate:"required"` // Local JSON artifact path
}

// S3Config controls the object-store collaborator. When disabled, the serve
// path reads the local output artifact instead.
type S3Config struct {
	Enabled bool   `toml:"enabled"`
	Bucket  string `toml:"bucket"`
	Key     string `toml:"key"`
	Region  string `toml:"region"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents the run-history store configuration
type BadgerConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Database directory path
}

// SchedulerConfig enables periodic conversion runs inside the serve process.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Standard 5-field cron expression
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in compat-matrix.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:        8000,
			Host:        "localhost",
			CORSOrigins: []string{},
		},
		Cache: CacheConfig{
			TTL: "5m",
		},
		Registry: RegistryConfig{
			Path:       "./registry.toml",
			AutoAppend: false,
			ReportPath: "./new_entries.txt",
		},
		Source: SourceConfig{
			Type: "database",
			Database: DatabaseConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "prefer",
			},
			Excel: ExcelConfig{
				Path: "./data/compatibility.xlsx",
			},
		},
		Output: OutputConfig{
			Path: "./data/compatibility.json",
		},
		S3: S3Config{
			Enabled: false,
			Key:     "data/compatibility.json",
			Region:  "us-east-1",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled: true,
				Path:    "./data/runs",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 */6 * * *", // Every 6 hours
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Database and S3 settings also honor the conventional unprefixed names so a
// plain .env works unchanged.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COMPAT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("COMPAT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	} else if port := os.Getenv("API_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("COMPAT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		parsed := []string{}
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			config.Server.CORSOrigins = parsed
		}
	}

	// Cache configuration
	if ttl := os.Getenv("COMPAT_CACHE_TTL"); ttl != "" {
		if _, err := time.ParseDuration(ttl); err == nil {
			config.Cache.TTL = ttl
		}
	} else if seconds := os.Getenv("CACHE_TTL_SECONDS"); seconds != "" {
		if n, err := strconv.Atoi(seconds); err == nil && n > 0 {
			config.Cache.TTL = fmt.Sprintf("%ds", n)
		}
	}

	// Registry configuration
	if path := os.Getenv("COMPAT_REGISTRY_PATH"); path != "" {
		config.Registry.Path = path
	}
	if autoAppend := os.Getenv("COMPAT_REGISTRY_AUTO_APPEND"); autoAppend != "" {
		if b, err := strconv.ParseBool(autoAppend); err == nil {
			config.Registry.AutoAppend = b
		}
	}

	// Source configuration
	if sourceType := os.Getenv("COMPAT_SOURCE_TYPE"); sourceType != "" {
		config.Source.Type = sourceType
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Source.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Source.Database.Port = p
		}
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		config.Source.Database.Name = name
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.Source.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Source.Database.Password = password
	}
	if path := os.Getenv("COMPAT_EXCEL_PATH"); path != "" {
		config.Source.Excel.Path = path
	}

	// Output configuration
	if path := os.Getenv("COMPAT_OUTPUT_PATH"); path != "" {
		config.Output.Path = path
	}

	// S3 configuration
	if enabled := os.Getenv("COMPAT_S3_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.S3.Enabled = b
		}
	}
	if bucket := os.Getenv("AWS_S3_BUCKET"); bucket != "" {
		config.S3.Bucket = bucket
	}
	if key := os.Getenv("AWS_S3_KEY"); key != "" {
		config.S3.Key = key
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.S3.Region = region
	}

	// Storage configuration
	if path := os.Getenv("COMPAT_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	// Scheduler configuration
	if enabled := os.Getenv("COMPAT_SCHEDULER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = b
		}
	}
	if schedule := os.Getenv("COMPAT_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}

	// Logging configuration
	if level := os.Getenv("COMPAT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("COMPAT_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the resolved configuration before startup.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" || c.S3.Key == "" {
			return fmt.Errorf("s3 is enabled but bucket or key is empty")
		}
	}

	if c.Scheduler.Enabled {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(c.Scheduler.Schedule); err != nil {
			return fmt.Errorf("invalid scheduler cron expression %q: %w", c.Scheduler.Schedule, err)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
