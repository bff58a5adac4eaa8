package config

// Config holds the demo binary's configuration, parsed from environment
// variables via github.com/caarlos0/env.
type Config struct {
	// Engine configuration file (YAML).
	EngineConfigPath string `env:"HAPPYREVIEW_CONFIG" envDefault:"config/happyreview.yaml"`

	// Redis-backed storage adapter.
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`
	RedisKeyPrefix    string `env:"REDIS_KEY_PREFIX" envDefault:"happyreview:"`

	// Prometheus metrics endpoint.
	MetricsPort     int    `env:"METRICS_PORT" envDefault:"8080"`
	MetricsEndpoint string `env:"METRICS_ENDPOINT" envDefault:"/metrics"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}
