package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env              string
	HTTPAddr         string
	StoreDriver      string
	MongoURI         string
	MongoDB          string
	CacheDriver      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	HorizonDays      int
	HoldTTL          time.Duration
	HoldSweepEvery   time.Duration
	NotifyTimeout    time.Duration
	KafkaBrokers     []string
	KafkaTopicPrefix string
	KafkaGroupID     string
	SeedFile         string
}

// Load parses configuration from the current environment. A .env file in the
// working directory is read first; real environment variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "enablers"),
		CacheDriver:      strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "enablers-availability"),
		SeedFile:         os.Getenv("SEED_FILE"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.HorizonDays, err = parseIntEnv("AVAILABILITY_HORIZON_DAYS", 90); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parseDurationEnv("AVAILABILITY_CACHE_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.HoldTTL, err = parseDurationEnv("HOLD_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.HoldSweepEvery, err = parseDurationEnv("HOLD_SWEEP_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.NotifyTimeout, err = parseDurationEnv("NOTIFY_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	switch cfg.StoreDriver {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	switch cfg.CacheDriver {
	case "memory", "redis", "none":
	default:
		return Config{}, fmt.Errorf("unknown CACHE_DRIVER %q", cfg.CacheDriver)
	}
	if cfg.HorizonDays <= 0 {
		return Config{}, fmt.Errorf("AVAILABILITY_HORIZON_DAYS must be positive")
	}
	return cfg, nil
}

// KafkaEnabled reports whether a broker list was configured.
func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

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

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
