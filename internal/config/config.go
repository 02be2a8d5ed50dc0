package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "INSTALLCHECK"

// Config holds the full application configuration.
type Config struct {
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Overpass OverpassConfig `yaml:"overpass" mapstructure:"overpass"`
	Recorder RecorderConfig `yaml:"recorder" mapstructure:"recorder"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GeocodeConfig configures the address geocoder cascade. Google is only
// used when GoogleAPIKey is set.
type GeocodeConfig struct {
	GoogleAPIKey         string  `yaml:"google_api_key" mapstructure:"google_api_key"`
	GoogleTimeoutSecs    int     `yaml:"google_timeout_secs" mapstructure:"google_timeout_secs"`
	NominatimURL         string  `yaml:"nominatim_url" mapstructure:"nominatim_url"`
	NominatimTimeoutSecs int     `yaml:"nominatim_timeout_secs" mapstructure:"nominatim_timeout_secs"`
	UserAgent            string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit            float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// OverpassConfig configures the geodata context fetch.
type OverpassConfig struct {
	URL         string  `yaml:"url" mapstructure:"url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RadiusM     float64 `yaml:"radius_m" mapstructure:"radius_m"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// RecorderConfig configures the classification log backend.
type RecorderConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // jsonl, sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OutputConfig configures CLI output.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// A missing .env is normal; variables already set in the process win.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("output.format", "json")
	v.SetDefault("geocode.google_api_key", "")
	v.SetDefault("geocode.google_timeout_secs", 15)
	v.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.nominatim_timeout_secs", 20)
	v.SetDefault("geocode.user_agent", "install-check/1.0")
	v.SetDefault("geocode.rate_limit", 1.0)
	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.timeout_secs", 60)
	v.SetDefault("overpass.radius_m", 80.0)
	v.SetDefault("overpass.max_attempts", 2)
	v.SetDefault("recorder.driver", "jsonl")
	v.SetDefault("recorder.path", "classifications.jsonl")
	v.SetDefault("recorder.database_url", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is the command name:
// check, analyze or serve.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Output.Format {
	case "json", "yaml":
	default:
		errs = append(errs, fmt.Sprintf("output.format must be json or yaml, got %q", c.Output.Format))
	}

	switch c.Recorder.Driver {
	case "jsonl", "sqlite":
		if c.Recorder.Path == "" {
			errs = append(errs, "recorder.path is required")
		}
	case "postgres":
		if c.Recorder.DatabaseURL == "" {
			errs = append(errs, "recorder.database_url is required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("recorder.driver must be jsonl, sqlite or postgres, got %q", c.Recorder.Driver))
	}

	switch mode {
	case "check":
	case "analyze", "serve":
		if c.Overpass.RadiusM <= 0 || c.Overpass.RadiusM > 500 {
			errs = append(errs, "overpass.radius_m must be between 0 and 500")
		}
		if c.Geocode.RateLimit <= 0 {
			errs = append(errs, "geocode.rate_limit must be > 0")
		}
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
