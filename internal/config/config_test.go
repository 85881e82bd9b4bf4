package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "tracking", cfg.MongoDB.Database)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Actor.Required)
	assert.Equal(t, "/api/v1/files", cfg.Files.BaseURL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
environment: staging
logLevel: debug
server:
  addr: ":9090"
mongodb:
  database: tracking_staging
kafka:
  brokers:
    - broker1:9092
    - broker2:9092
actor:
  required: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "tracking_staging", cfg.MongoDB.Database)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Actor.Required)

	// Untouched fields keep defaults
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("MONGODB_DATABASE", "tracking_test")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092, kafka2:9092")
	t.Setenv("ACTOR_REQUIRED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "tracking_test", cfg.MongoDB.Database)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Actor.Required)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsEmptyBrokers(t *testing.T) {
	cfg := Default()
	cfg.Kafka.Brokers = nil
	require.Error(t, cfg.validate())
}

func TestClientConfigMapping(t *testing.T) {
	cfg := Default()
	cfg.MongoDB.URI = "mongodb://db:27017"
	cfg.Kafka.Brokers = []string{"broker:9092"}

	mc := cfg.MongoClientConfig()
	assert.Equal(t, "mongodb://db:27017", mc.URI)
	assert.Equal(t, "tracking", mc.Database)

	kc := cfg.KafkaProducerConfig()
	assert.Equal(t, []string{"broker:9092"}, kc.Brokers)
	assert.Equal(t, "tracking-service", kc.ClientID)
}
