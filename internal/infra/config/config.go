package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application settings loaded from environment variables.
// Only STORE_MODE=mongo and AUTH_MODE=firebase pull in their respective
// connection settings; the defaults run fully in-process.
type Config struct {
	Env      string
	HTTPAddr string

	StoreMode string // memory | mongo
	MongoURI  string
	MongoDB   string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	AuthMode            string // memory | file | firebase
	AuthUsersFile       string
	FirebaseCredentials string

	GeminiAPIKey   string
	InsightTimeout time.Duration

	PaymentProcessingDelay time.Duration
	IdempotencyTTL         time.Duration
	OutboxPollInterval     time.Duration
	RetryBackoff           []time.Duration

	ListingsFixtures string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		StoreMode:           strings.ToLower(getEnv("STORE_MODE", "memory")),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "tubo"),
		KafkaTopicPrefix:    getEnv("KAFKA_TOPIC_PREFIX", ""),
		AuthMode:            strings.ToLower(getEnv("AUTH_MODE", "memory")),
		AuthUsersFile:       getEnv("AUTH_USERS_FILE", "data/users.db.json"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		ListingsFixtures:    getEnv("LISTINGS_FIXTURES", "data/cars.json"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	delay, err := parseDurationEnv("PAYMENT_PROCESSING_DELAY", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentProcessingDelay = delay

	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	insightTimeout, err := parseDurationEnv("INSIGHT_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.InsightTimeout = insightTimeout

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	switch cfg.StoreMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_MODE %q", cfg.StoreMode)
	}

	switch cfg.AuthMode {
	case "memory", "file":
	case "firebase":
		if cfg.FirebaseCredentials == "" {
			return Config{}, fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required when AUTH_MODE=firebase")
		}
	default:
		return Config{}, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
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
