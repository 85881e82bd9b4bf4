package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/printtrack/tracking-service/pkg/kafka"
	"github.com/printtrack/tracking-service/pkg/mongodb"
)

// Config holds the full service configuration. Values come from an optional
// YAML file, overridden by environment variables.
type Config struct {
	Environment string       `yaml:"environment"`
	LogLevel    string       `yaml:"logLevel"`
	Server      ServerConfig `yaml:"server"`
	MongoDB     MongoConfig  `yaml:"mongodb"`
	Kafka       KafkaConfig  `yaml:"kafka"`
	Actor       ActorConfig  `yaml:"actor"`
	Files       FilesConfig  `yaml:"files"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// KafkaConfig holds Kafka producer settings
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

// ActorConfig controls actor header handling
type ActorConfig struct {
	Required bool `yaml:"required"`
}

// FilesConfig holds stored-file settings
type FilesConfig struct {
	// BaseURL is the path prefix under which stored files are served
	BaseURL string `yaml:"baseUrl"`
}

// Default returns the configuration defaults for local development
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "tracking",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
		},
		Actor: ActorConfig{
			Required: false,
		},
		Files: FilesConfig{
			BaseURL: "/api/v1/files",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variable overrides, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.MongoDB.URI = getEnv("MONGODB_URI", c.MongoDB.URI)
	c.MongoDB.Database = getEnv("MONGODB_DATABASE", c.MongoDB.Database)
	c.Files.BaseURL = getEnv("FILES_BASE_URL", c.Files.BaseURL)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitAndTrim(brokers)
	}
	if required := os.Getenv("ACTOR_REQUIRED"); required != "" {
		if v, err := strconv.ParseBool(required); err == nil {
			c.Actor.Required = v
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri must not be empty")
	}
	if c.MongoDB.Database == "" {
		return fmt.Errorf("mongodb database must not be empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}
	return nil
}

// MongoClientConfig maps the service configuration onto the MongoDB client
// wrapper's configuration
func (c *Config) MongoClientConfig() *mongodb.Config {
	mc := mongodb.DefaultConfig()
	mc.URI = c.MongoDB.URI
	mc.Database = c.MongoDB.Database
	return mc
}

// KafkaProducerConfig maps the service configuration onto the Kafka producer
// configuration
func (c *Config) KafkaProducerConfig() *kafka.Config {
	kc := kafka.DefaultConfig()
	kc.Brokers = c.Kafka.Brokers
	return kc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
