package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.User = "nexus"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Mode = "production"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresDatabaseFields(t *testing.T) {
	cfg := validConfig()
	cfg.Database.User = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.MaxConns = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresKafkaBrokers(t *testing.T) {
	cfg := validConfig()
	cfg.Kafka.Brokers = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Log.Format = "text"
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.internal", Port: 5432,
		User: "nexus", Password: "secret",
		DBName: "nexus", SSLMode: "disable",
	}
	require.Equal(t,
		"host=db.internal port=5432 user=nexus password=secret dbname=nexus sslmode=disable",
		cfg.DSN())
}
