// Package config provides configuration management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

const (
	// AutoApplyByPriority ordena as regras por prioridade antes do auto-apply.
	AutoApplyByPriority = "priority"
	// AutoApplyByInsertion mantém a ordem de inserção do mapa de regras.
	AutoApplyByInsertion = "insertion"
)

// Config is the main application configuration
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  logging.Config `yaml:"logging"`
}

type EngineConfig struct {
	// AutoApplyOrder: "priority" ou "insertion"
	AutoApplyOrder string `yaml:"auto_apply_order"`

	// RulePack é o ficheiro de regras usado quando não há base de dados.
	RulePack string `yaml:"rule_pack"`

	// RulesVersion escolhe <versão>_rules.* quando RulePack é um diretório.
	RulesVersion string `yaml:"rules_version"`
}

type DatabaseConfig struct {
	// Driver: "pgx" ou "mysql"
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	GuardTTL time.Duration `yaml:"guard_ttl"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type HTTPConfig struct {
	Addr      string  `yaml:"addr"`
	JWTSecret string  `yaml:"jwt_secret"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			AutoApplyOrder: AutoApplyByPriority,
			RulePack:       "data/rules",
			RulesVersion:   "v1",
		},
		Database: DatabaseConfig{Driver: "pgx"},
		Redis:    RedisConfig{GuardTTL: 10 * time.Minute},
		Kafka:    KafkaConfig{Topic: "pricing-schemes"},
		HTTP:     HTTPConfig{Addr: ":8080", RateLimit: 20, Burst: 40},
		Logging:  logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
// Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.HTTP.JWTSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RULE_PACK"); v != "" {
		c.Engine.RulePack = v
	}
	if v := os.Getenv("RULES_VERSION"); v != "" {
		c.Engine.RulesVersion = v
	}
	if v := os.Getenv("AUTO_APPLY_ORDER"); v != "" {
		c.Engine.AutoApplyOrder = v
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.HTTP.RateLimit = f
		}
	}
}

func (c *Config) Validate() error {
	switch c.Engine.AutoApplyOrder {
	case AutoApplyByPriority, AutoApplyByInsertion:
	default:
		return fmt.Errorf("invalid engine.auto_apply_order %q", c.Engine.AutoApplyOrder)
	}
	switch c.Database.Driver {
	case "pgx", "mysql":
	default:
		return fmt.Errorf("invalid database.driver %q", c.Database.Driver)
	}
	return nil
}
