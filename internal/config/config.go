package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BWS_GATEWAY"

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	APIAuth struct {
		HeaderName string `mapstructure:"header_name"`
		APIKey     string `mapstructure:"api_key"`
	} `mapstructure:"api_auth"`

	BWS struct {
		Endpoint string `mapstructure:"endpoint"`
		// AccessKey is the base64 encoded HMAC signing key.
		AccessKey string `mapstructure:"access_key"`
		ClientID  string `mapstructure:"client_id"`
		Audience  string `mapstructure:"audience"`
		// Protocol is one of grpc, grpcweb or connect.
		Protocol string `mapstructure:"protocol"`
	} `mapstructure:"bws"`

	Observability struct {
		MetricsEnabled     bool   `mapstructure:"metrics_enabled"`
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("api_auth.header_name", "X-Api-Key")
	v.SetDefault("api_auth.api_key", "")

	v.SetDefault("bws.endpoint", "")
	v.SetDefault("bws.access_key", "")
	v.SetDefault("bws.client_id", "")
	v.SetDefault("bws.audience", "bws")
	v.SetDefault("bws.protocol", "grpc")

	v.SetDefault("observability.metrics_enabled", false)
	v.SetDefault("observability.trace_enabled", false)
	v.SetDefault("observability.tracing_endpoint_url", "")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.log_source", false)
}

// Load reads config.yaml from paths (./config and . when none are given),
// merges config.<APP_ENV>.yaml when APP_ENV is set and applies BWS_GATEWAY_*
// environment overrides. A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		slog.Info("No config file found, using defaults and environment")
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			slog.Info("No environment-specific config (optional)", slog.String("env", env))
		} else {
			slog.Info("Environment-specific config loaded", slog.String("env", env))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads and validates the configuration and exits the process on
// any error.
func MustLoad() *Config {
	logger := slog.Default()

	cfg, err := Load()
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid config", slog.Any("error", err))
		os.Exit(1)
	}

	return cfg
}

// Validate reports every setting the gateway cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.APIAuth.HeaderName == "" {
		errs = append(errs, errors.New("api_auth.header_name is required"))
	}
	if c.APIAuth.APIKey == "" {
		errs = append(errs, errors.New("api_auth.api_key is required"))
	}

	if c.BWS.Endpoint == "" {
		errs = append(errs, errors.New("bws.endpoint is required"))
	} else if u, err := url.Parse(c.BWS.Endpoint); err != nil || !u.IsAbs() || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("bws.endpoint %q is not an absolute http(s) URI", c.BWS.Endpoint))
	}

	if c.BWS.AccessKey == "" {
		errs = append(errs, errors.New("bws.access_key is required"))
	} else if _, err := c.SigningKey(); err != nil {
		errs = append(errs, err)
	}

	if c.BWS.ClientID == "" {
		errs = append(errs, errors.New("bws.client_id is required"))
	}
	if c.BWS.Audience == "" {
		errs = append(errs, errors.New("bws.audience is required"))
	}

	switch c.BWS.Protocol {
	case "grpc", "grpcweb", "connect":
	default:
		errs = append(errs, fmt.Errorf("bws.protocol %q is not one of grpc, grpcweb, connect", c.BWS.Protocol))
	}

	return errors.Join(errs...)
}

// SigningKey decodes the base64 access key.
func (c *Config) SigningKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.BWS.AccessKey)
	if err != nil {
		return nil, fmt.Errorf("bws.access_key is not valid base64: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("bws.access_key decodes to an empty key")
	}
	return key, nil
}
