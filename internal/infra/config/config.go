package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	// Storage selects the persistence backend: "memory" or "mongo".
	Storage string
	MongoURI string
	MongoDB  string

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	IdempotencyTTL     time.Duration

	// Pricing surcharge configuration. Amounts are minor currency units.
	Currency           string
	ServiceCharge      int64
	TaxRateBasisPoints int64

	// MediaMinItems is the publish-gate floor on tagged media items.
	MediaMinItems int

	// Refund tier boundaries in days before check-in.
	RefundEarlyThresholdDays float64
	RefundLateThresholdDays  float64
	RefundEarlyPercent       int
	RefundLatePercent        int

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		Storage:          strings.ToLower(getEnv("STORAGE", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "staynest"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		Currency:         getEnv("CURRENCY", "USD"),
		S3Endpoint:       getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "staynest-media"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ServiceCharge, err = parseIntEnv("SERVICE_CHARGE", 0); err != nil {
		return Config{}, err
	}
	if cfg.TaxRateBasisPoints, err = parseIntEnv("TAX_RATE_BPS", 1200); err != nil {
		return Config{}, err
	}
	minItems, err := parseIntEnv("MEDIA_MIN_ITEMS", 3)
	if err != nil {
		return Config{}, err
	}
	cfg.MediaMinItems = int(minItems)

	if cfg.RefundEarlyThresholdDays, err = parseFloatEnv("REFUND_EARLY_THRESHOLD_DAYS", 3); err != nil {
		return Config{}, err
	}
	if cfg.RefundLateThresholdDays, err = parseFloatEnv("REFUND_LATE_THRESHOLD_DAYS", 1); err != nil {
		return Config{}, err
	}
	early, err := parseIntEnv("REFUND_EARLY_PERCENT", 90)
	if err != nil {
		return Config{}, err
	}
	cfg.RefundEarlyPercent = int(early)
	late, err := parseIntEnv("REFUND_LATE_PERCENT", 50)
	if err != nil {
		return Config{}, err
	}
	cfg.RefundLatePercent = int(late)

	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	if cfg.TaxRateBasisPoints < 0 || cfg.TaxRateBasisPoints > 10000 {
		return Config{}, fmt.Errorf("TAX_RATE_BPS must be in [0, 10000]")
	}
	if cfg.RefundEarlyPercent < 0 || cfg.RefundEarlyPercent > 100 || cfg.RefundLatePercent < 0 || cfg.RefundLatePercent > 100 {
		return Config{}, fmt.Errorf("refund percentages must be in [0, 100]")
	}
	switch cfg.Storage {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s number: %w", key, err)
	}
	return f, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
