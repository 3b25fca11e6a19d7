package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Maps      MapsConfig      `mapstructure:"maps"`
	Start     StartConfig     `mapstructure:"start"`
	Nominatim NominatimConfig `mapstructure:"nominatim"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MapsConfig describes the map SDK: its credential, the libraries to load
// and the pane size in pixels.
type MapsConfig struct {
	APIKey    string   `mapstructure:"api_key"`
	Libraries []string `mapstructure:"libraries"`
	Width     int      `mapstructure:"width"`
	Height    int      `mapstructure:"height"`
}

type StartConfig struct {
	Lat  float64 `mapstructure:"lat"`
	Lng  float64 `mapstructure:"lng"`
	Zoom int     `mapstructure:"zoom"`
}

type NominatimConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	Limit          int    `mapstructure:"limit"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CheckStatus    bool   `mapstructure:"check_status"`
}

// ValkeyConfig enables the search cache when Addr is set.
type ValkeyConfig struct {
	Addr       string `mapstructure:"addr"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// NATSConfig enables event publishing when URL is set.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ANTIPODES_NOMINATIM_BASE_URL → nominatim.base_url
	v.SetEnvPrefix("ANTIPODES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "antipodes.log")
	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.libraries", []string{"places", "marker"})
	v.SetDefault("maps.width", 640)
	v.SetDefault("maps.height", 480)
	v.SetDefault("start.lat", -33.42651995258547)
	v.SetDefault("start.lng", -70.66558906755355)
	v.SetDefault("start.zoom", 12)
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", service)
	v.SetDefault("nominatim.limit", 5)
	v.SetDefault("nominatim.timeout_seconds", 10)
	v.SetDefault("nominatim.check_status", false)
	v.SetDefault("valkey.addr", "")
	v.SetDefault("valkey.ttl_seconds", 3600)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "antipodes")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("metrics.textfile", "")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if !(c.Start.Lat >= -90 && c.Start.Lat <= 90) {
		errs = append(errs, fmt.Sprintf("start.lat must be within [-90, 90], got %v", c.Start.Lat))
	}
	if !(c.Start.Lng >= -180 && c.Start.Lng <= 180) {
		errs = append(errs, fmt.Sprintf("start.lng must be within [-180, 180], got %v", c.Start.Lng))
	}
	if c.Start.Zoom < 0 || c.Start.Zoom > 20 {
		errs = append(errs, fmt.Sprintf("start.zoom must be 0-20, got %d", c.Start.Zoom))
	}
	if c.Maps.Width <= 0 || c.Maps.Height <= 0 {
		errs = append(errs, fmt.Sprintf("maps.width and maps.height must be positive, got %dx%d", c.Maps.Width, c.Maps.Height))
	}
	if c.Nominatim.BaseURL == "" {
		errs = append(errs, "nominatim.base_url is required")
	}
	if c.Nominatim.Limit <= 0 || c.Nominatim.Limit > 20 {
		errs = append(errs, fmt.Sprintf("nominatim.limit must be 1-20, got %d", c.Nominatim.Limit))
	}
	if c.Nominatim.TimeoutSeconds <= 0 {
		errs = append(errs, "nominatim.timeout_seconds must be positive")
	}
	if c.Valkey.Addr != "" && c.Valkey.TTLSeconds <= 0 {
		errs = append(errs, "valkey.ttl_seconds must be positive when valkey.addr is set")
	}
	if c.Telemetry.Enabled && c.Telemetry.TempoAddr == "" {
		errs = append(errs, "telemetry.tempo_addr is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
