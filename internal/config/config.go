package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"insiderdash/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "INSIDERDASH"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`

	// path of the YAML file the configuration was read from, if any
	source string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	SecurityHeaders bool            `yaml:"security_headers" envconfig:"SECURITY_HEADERS"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// FieldConfig lists the headers a canonical field may appear under.
// Headers match exactly ignoring case; Contains matches as a substring.
type FieldConfig struct {
	Headers  []string `yaml:"headers"`
	Contains []string `yaml:"contains"`
}

// PipelineConfig drives loading and normalization of the disclosure file
type PipelineConfig struct {
	DataFile       string        `yaml:"data_file" envconfig:"DATA_FILE" validate:"required"`
	DataPattern    string        `yaml:"data_pattern" envconfig:"DATA_PATTERN"`
	Delimiter      string        `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Encoding       string        `yaml:"encoding" envconfig:"ENCODING" validate:"oneof=latin1 utf-8"`
	NumberFormat   string        `yaml:"number_format" envconfig:"NUMBER_FORMAT" validate:"oneof=plain localized"`
	CurrencySymbol string        `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL"`
	SortKey        string        `yaml:"sort_key" envconfig:"SORT_KEY" validate:"oneof=volume date"`
	DedupKey       string        `yaml:"dedup_key" envconfig:"DEDUP_KEY" validate:"oneof=volume volume_company_date"`
	CacheTTL       time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" validate:"gte=0"`
	DropColumns    []string      `yaml:"drop_columns" envconfig:"DROP_COLUMNS"`
	VolumeColumn   string        `yaml:"volume_column" envconfig:"VOLUME_COLUMN" validate:"required"`
	RequiredFields []string      `yaml:"required_fields" envconfig:"REQUIRED_FIELDS"`

	// DataPattern selects among the files of DataFile when it is a
	// directory; the newest match is loaded (any CSV when empty).

	// Overrides merged over the built-in header mapping, keyed by canonical field
	Fields map[string]FieldConfig `yaml:"fields" ignored:"true"`
}

// ExportConfig contains workbook and CSV export settings
type ExportConfig struct {
	Filename       string `yaml:"filename" envconfig:"FILENAME" validate:"required"`
	CSVFilename    string `yaml:"csv_filename" envconfig:"CSV_FILENAME" validate:"required"`
	SheetName      string `yaml:"sheet_name" envconfig:"SHEET_NAME" validate:"required,max=31"`
	DefaultScope   string `yaml:"default_scope" envconfig:"DEFAULT_SCOPE" validate:"oneof=all filtered"`
	WidthPadding   int    `yaml:"width_padding" envconfig:"WIDTH_PADDING" validate:"gte=0"`
	MaxColumnWidth int    `yaml:"max_column_width" envconfig:"MAX_COLUMN_WIDTH" validate:"min=1,max=255"`
}

// ThemeConfig holds the dashboard colour palette
type ThemeConfig struct {
	Primary    string `yaml:"primary" envconfig:"PRIMARY" validate:"hexcolor"`
	Secondary  string `yaml:"secondary" envconfig:"SECONDARY" validate:"hexcolor"`
	Accent     string `yaml:"accent" envconfig:"ACCENT" validate:"hexcolor"`
	Background string `yaml:"background" envconfig:"BACKGROUND" validate:"hexcolor"`
	Text       string `yaml:"text" envconfig:"TEXT" validate:"hexcolor"`
}

// DashboardConfig is handed read-only to the presentation layer
type DashboardConfig struct {
	Title      string      `yaml:"title" envconfig:"TITLE" validate:"required"`
	Subtitle   string      `yaml:"subtitle" envconfig:"SUBTITLE"`
	GridHeight int         `yaml:"grid_height" envconfig:"GRID_HEIGHT" validate:"gt=0"`
	Theme      ThemeConfig `yaml:"theme" envconfig:"THEME"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceStdout bool   `yaml:"trace_stdout" envconfig:"TRACE_STDOUT"`
	MetricsPath string `yaml:"metrics_path" envconfig:"METRICS_PATH" validate:"startswith=/"`
}

// Load builds the configuration from defaults, the YAML file at path (or the
// first well-known location when path is empty) and INSIDERDASH_* variables,
// in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg.source = path
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Source returns the YAML file the configuration was read from
func (c *Config) Source() string {
	return c.source
}

// loadFromFile overlays the YAML document at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for _, name := range c.Pipeline.RequiredFields {
		if _, ok := domain.ParseField(name); !ok {
			return fmt.Errorf("unknown required field %q", name)
		}
	}
	for name := range c.Pipeline.Fields {
		if _, ok := domain.ParseField(name); !ok {
			return fmt.Errorf("unknown field mapping %q", name)
		}
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            DefaultPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			SecurityHeaders: true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/insiderdash.log",
		},
		Pipeline: PipelineConfig{
			DataFile:       DefaultDataFile,
			Delimiter:      ";",
			Encoding:       EncodingLatin1,
			NumberFormat:   NumberFormatPlain,
			CurrencySymbol: "R$",
			SortKey:        SortByVolume,
			DedupKey:       DedupByVolume,
			CacheTTL:       0,
			DropColumns:    append([]string(nil), DefaultDropColumns...),
			VolumeColumn:   CanonicalVolumeColumn,
		},
		Export: ExportConfig{
			Filename:       DefaultExportFilename,
			CSVFilename:    DefaultCSVFilename,
			SheetName:      DefaultSheetName,
			DefaultScope:   "all",
			WidthPadding:   2,
			MaxColumnWidth: 255,
		},
		Dashboard: DashboardConfig{
			Title:      AppTitle,
			Subtitle:   "Movimentações de administradores e conselheiros",
			GridHeight: 600,
			Theme: ThemeConfig{
				Primary:    "#102E46",
				Secondary:  "#C98C2E",
				Accent:     "#0E7C7B",
				Background: "#FFFFFF",
				Text:       "#333333",
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			ServiceName: AppName,
			MetricsPath: "/metrics",
		},
	}
}
