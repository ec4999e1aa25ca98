package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied for keys absent from config.yml.
const (
	DefaultSubsegmentMeters = 300.0
	DefaultBatchSize        = 40
	DefaultTimeoutMS        = 30000
	DefaultPort             = 16190
	DefaultAPIKeyEnv        = "GOOGLE_MAPS_API_KEY"
	DefaultInputPath        = "segments.geojson"
	DefaultOutputPath       = "speeds.geojson"
)

// ErrMissingAPIKey is the only fatal configuration condition: without a
// credential no request may be issued.
var ErrMissingAPIKey = errors.New("missing route matrix API key")

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from
// config.yml. A missing file yields the defaults.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	var cfg AppConfig
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return errors.Wrap(err, "parse config.yml")
		}
	}
	applyDefaults(&cfg)
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	Config = cfg
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.ETL.SubsegmentMeters == 0 {
		cfg.ETL.SubsegmentMeters = DefaultSubsegmentMeters
	}
	if cfg.ETL.BatchSize == 0 {
		cfg.ETL.BatchSize = DefaultBatchSize
	}
	if cfg.ETL.Workers == 0 {
		cfg.ETL.Workers = 1
	}
	if cfg.ETL.InputPath == "" {
		cfg.ETL.InputPath = DefaultInputPath
	}
	if cfg.ETL.OutputPath == "" {
		cfg.ETL.OutputPath = DefaultOutputPath
	}
	if cfg.Routes.TimeoutMS == 0 {
		cfg.Routes.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Routes.APIKeyEnv == "" {
		cfg.Routes.APIKeyEnv = DefaultAPIKeyEnv
	}
}

// APIKey reads the route matrix credential from the environment. The
// credential is supplied out-of-band by the surrounding application and
// never stored in config.yml.
func (c RoutesConfig) APIKey() (string, error) {
	env := c.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv
	}
	key := os.Getenv(env)
	if key == "" {
		return "", errors.Wrapf(ErrMissingAPIKey, "environment variable %s not set", env)
	}
	return key, nil
}
