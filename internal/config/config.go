package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eireweather/met-warnings-service/internal/domain"
)

// DefaultAPIURL is the Met Éireann open data warnings endpoint.
const DefaultAPIURL = "https://www.met.ie/Open_Data/json/warning_IRELAND.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	APIURL          string
	FetchTimeout    time.Duration
	PollInterval    time.Duration
	AreaGroups      []domain.AreaGroup
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional sensor-state publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A local .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := envDuration("POLL_INTERVAL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	groups, err := parseAreaGroups(envOrDefault("AREA_GROUPS", "ireland=*"))
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		APIURL:          envOrDefault("MET_API_URL", DefaultAPIURL),
		FetchTimeout:    fetchTimeout,
		PollInterval:    pollInterval,
		AreaGroups:      groups,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "weather-warning-states"),
	}

	if cfg.FetchTimeout <= 0 {
		return nil, errors.New("FETCH_TIMEOUT must be positive")
	}
	if cfg.PollInterval < time.Minute {
		return nil, errors.New("POLL_INTERVAL must be at least 1m")
	}
	if cfg.APIURL == "" {
		return nil, errors.New("MET_API_URL is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}

// parseAreaGroups parses the AREA_GROUPS value: semicolon-separated
// "name=selector" entries where a selector is "*" or a comma-separated
// mix of county and province names, e.g.
//
//	ireland=*;dublin=Dublin;southwest=Cork,Kerry;west=connacht
func parseAreaGroups(value string) ([]domain.AreaGroup, error) {
	var groups []domain.AreaGroup
	seen := make(map[string]struct{})

	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, selector, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid AREA_GROUPS entry %q (want name=selector)", entry)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate area group %q", name)
		}
		seen[name] = struct{}{}

		group, err := domain.NewAreaGroup(name, selector)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return nil, errors.New("AREA_GROUPS selects no area groups")
	}
	return groups, nil
}

func parseBrokers(value string) []string {
	var brokers []string
	for _, b := range strings.Split(value, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
