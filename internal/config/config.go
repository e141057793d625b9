package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	ORSAPIKey  string `mapstructure:"ORS_API_KEY"`
	ORSBaseURL string `mapstructure:"ORS_BASE_URL"`
	ORSProfile string `mapstructure:"ORS_PROFILE"`

	PlainCap    int `mapstructure:"PLAIN_CAP"`
	OptimizeCap int `mapstructure:"OPTIMIZE_CAP"`

	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	LegCacheTTLSeconds int    `mapstructure:"LEG_CACHE_TTL_SECONDS"`

	EventsBackend string `mapstructure:"EVENTS_BACKEND"`
	KafkaBroker   string `mapstructure:"KAFKA_BROKER"`
	KafkaTopic    string `mapstructure:"KAFKA_TOPIC"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	LogLevel        string `mapstructure:"LOG_LEVEL"`
	LogFormat       string `mapstructure:"LOG_FORMAT"`
	PlaybackFrameMs int    `mapstructure:"PLAYBACK_FRAME_MS"`
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"ORS_API_KEY":           "",
	"ORS_BASE_URL":          "https://api.openrouteservice.org",
	"ORS_PROFILE":           "driving-car",
	"PLAIN_CAP":             25,
	"OPTIMIZE_CAP":          9,
	"DATABASE_URL":          "",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"LEG_CACHE_TTL_SECONDS": 86400,
	"EVENTS_BACKEND":        "none",
	"KAFKA_BROKER":          "localhost:9092",
	"KAFKA_TOPIC":           "routes.published",
	"MINIO_ENDPOINT":        "",
	"MINIO_ACCESS_KEY":      "",
	"MINIO_SECRET_KEY":      "",
	"MINIO_BUCKET":          "route-exports",
	"MINIO_USE_SSL":         false,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "console",
	"PLAYBACK_FRAME_MS":     16,
}

// Load reads an optional .env file and then the environment.
// Every key has a default so that Unmarshal sees it.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	cfg.EventsBackend = strings.ToLower(strings.TrimSpace(cfg.EventsBackend))
	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
