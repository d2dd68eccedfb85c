// Package config builds runtime configuration from the environment with an
// optional YAML overlay file, keeping main lean.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr       string `yaml:"addr"`
	RosterPath string `yaml:"roster_path"`

	// StoreBackend selects the assignment store: memory, file, or postgres.
	StoreBackend string `yaml:"store_backend"`
	DataDir      string `yaml:"data_dir"`
	PostgresDSN  string `yaml:"postgres_dsn"`

	// RedisURL enables the capacity snapshot cache when set.
	RedisURL string `yaml:"redis_url"`

	// KafkaBrokers enables the audit event publisher when non-empty.
	KafkaBrokers []string `yaml:"kafka_brokers"`
	AuditTopic   string   `yaml:"audit_topic"`

	AdminToken    string        `yaml:"admin_token"`
	JWTSigningKey string        `yaml:"jwt_signing_key"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// FromEnv builds a Config from environment variables. When COOP_CONFIG names
// a YAML file its values are loaded first and environment variables override.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:          ":8080",
		RosterPath:    "data/trainees.xlsx",
		StoreBackend:  "file",
		DataDir:       "data",
		AuditTopic:    "coop.assignment.audit",
		JWTSigningKey: "dev-secret-key-change-in-production",
		SessionTTL:    30 * time.Minute,
	}

	if path := os.Getenv("COOP_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	overrideString(&cfg.Addr, "COOP_ADDR")
	overrideString(&cfg.RosterPath, "COOP_ROSTER_PATH")
	overrideString(&cfg.StoreBackend, "COOP_STORE_BACKEND")
	overrideString(&cfg.DataDir, "COOP_DATA_DIR")
	overrideString(&cfg.PostgresDSN, "COOP_POSTGRES_DSN")
	overrideString(&cfg.RedisURL, "COOP_REDIS_URL")
	overrideString(&cfg.AuditTopic, "COOP_AUDIT_TOPIC")
	overrideString(&cfg.AdminToken, "COOP_ADMIN_TOKEN")
	overrideString(&cfg.JWTSigningKey, "COOP_JWT_SIGNING_KEY")

	if brokers := os.Getenv("COOP_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = nil
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	if ttl := os.Getenv("COOP_SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("parse COOP_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	switch cfg.StoreBackend {
	case "memory", "file", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
