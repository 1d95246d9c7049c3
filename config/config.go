package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port   string `env:"SERVER_PORT" envDefault:"5250"`
		DBPath string `env:"DB_PATH" envDefault:"database/roamstay.db"`
	}

	// Search defaults applied when the client omits a parameter
	Search struct {
		// Default search radius around the map center (miles)
		RadiusMiles float64 `env:"SEARCH_RADIUS_MILES" envDefault:"30"`

		// Default map cluster radius (meters)
		ClusterRadiusMeters float64 `env:"CLUSTER_RADIUS_METERS" envDefault:"200"`

		// Salt mixed into the coordinate obfuscation hash
		ObfuscationSalt int `env:"OBFUSCATION_SALT" envDefault:"0"`
	}

	// Ingest configuration for host listing submissions
	Ingest struct {
		// Queue buffer size in batches
		QueueSize int `env:"INGEST_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"INGEST_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"INGEST_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"INGEST_RETRY_DELAY" envDefault:"5"`
	}

	// Geocoding refresh configuration
	Geocoding struct {
		// How often the scheduler looks for listings missing coordinates (minutes)
		RefreshIntervalMinutes int `env:"GEOCODE_REFRESH_INTERVAL" envDefault:"15"`

		// Maximum listings geocoded per refresh pass
		BatchSize int `env:"GEOCODE_BATCH_SIZE" envDefault:"10"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
