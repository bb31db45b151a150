package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
// Precedence: environment variables > config file > built-in defaults.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Fetch    FetchConfig    `yaml:"fetch" envconfig:"FETCH"`
	Report   ReportConfig   `yaml:"report" envconfig:"REPORT"`
	Schedule ScheduleConfig `yaml:"schedule" envconfig:"SCHEDULE"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// FetchConfig describes where the yearly EIA CSV datasets come from
type FetchConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Market   string        `yaml:"market" envconfig:"MARKET" validate:"required"`
	Years    []int         `yaml:"years" envconfig:"YEARS" validate:"len=2,dive,gte=2000,lte=2100"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	SkipRows int           `yaml:"skip_rows" envconfig:"SKIP_ROWS" validate:"gte=0"`
}

// ReportConfig controls the generated Excel artifact
type ReportConfig struct {
	OutputFile string `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
	WindowDays int    `yaml:"window_days" envconfig:"WINDOW_DAYS" validate:"gt=0"`
}

// ScheduleConfig controls the twice-daily update loop
type ScheduleConfig struct {
	RunTimes      []string      `yaml:"run_times" envconfig:"RUN_TIMES" validate:"min=1,dive,datetime=15:04"`
	CheckInterval time.Duration `yaml:"check_interval" envconfig:"CHECK_INTERVAL" validate:"gt=0"`
}

// ServerConfig contains the admin HTTP surface configuration used in
// scheduled mode (health, metrics, on-demand trigger)
type ServerConfig struct {
	Enabled         bool          `yaml:"enabled" envconfig:"ENABLED"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// Default returns the built-in configuration. The config file and the EIA_*
// environment variables overlay it in that order.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "reporter.log",
		},
		Fetch: FetchConfig{
			BaseURL:  "https://www.eia.gov/electricity/wholesalemarkets/csv",
			Market:   "pjm",
			Years:    []int{2024, 2025},
			Timeout:  60 * time.Second,
			SkipRows: 3,
		},
		Report: ReportConfig{
			OutputFile: "Electricity_Market_Data.xlsx",
			WindowDays: 365,
		},
		Schedule: ScheduleConfig{
			RunTimes:      []string{"05:00", "17:00"},
			CheckInterval: time.Minute,
		},
		Server: ServerConfig{
			Enabled:         true,
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			// The on-demand trigger runs the update synchronously, so the
			// write timeout must outlast two year fetches plus the write.
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

// Load loads configuration from the optional YAML config file and the
// environment on top of the defaults, then validates the result.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over the file. Fields without a
	// corresponding EIA_* variable keep their current value.
	if err := envconfig.Process("EIA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file. Only keys present in
// the file are touched.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against the struct-level validation tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the default config file location next to the
// executable, falling back to the working directory.
func getConfigFilePath() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "eiareport.yaml")
	}
	return "eiareport.yaml"
}

// YearSheetName returns the sheet name for a raw year section, e.g. "2024 Data".
func YearSheetName(year int) string {
	return fmt.Sprintf("%d Data", year)
}

// CombinedSheetName is the sheet holding the rolling-window rows and the
// styled AVERAGE summary row.
const CombinedSheetName = "Combined Data"
