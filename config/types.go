package config

// ServerConfig contains the snapshot HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// ETLConfig controls the densification and batching pass.
type ETLConfig struct {
	InputPath        string  `yaml:"input"`
	OutputPath       string  `yaml:"output"`
	SubsegmentMeters float64 `yaml:"subsegment_m" validate:"gt=0"`
	BatchSize        int     `yaml:"batch_size" validate:"gt=0"`
	Workers          int     `yaml:"workers" validate:"gte=1"`
	RefreshIntervalS int     `yaml:"refreshIntervalS" validate:"gte=0"`
}

// RoutesConfig configures the route matrix client.
type RoutesConfig struct {
	Endpoint   string `yaml:"endpoint" validate:"omitempty,url"`
	APIKeyEnv  string `yaml:"apiKeyEnv"`
	TimeoutMS  int    `yaml:"timeoutMS" validate:"gte=0"`
	MaxRetries int    `yaml:"maxRetries" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	ETL    ETLConfig    `yaml:"etl"`
	Routes RoutesConfig `yaml:"routes"`
}
