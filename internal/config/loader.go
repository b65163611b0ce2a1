package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all platform settings.
const envPrefix = "NEXUS"

// knownKeys lists every configuration key.  Viper only consults the
// environment for keys it knows about, so each key is pre-registered with a
// zero default; ApplyDefaults later replaces the zeros that matter.
var knownKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout", "server.rate_limit_rps",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.max_idle_conns", "database.conn_max_lifetime", "database.migration_path",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
	"kafka.brokers", "kafka.group_id", "kafka.producer_retries", "kafka.batch_timeout",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.use_ssl", "minio.presign_expiry",
	"worker.concurrency", "worker.max_retries", "worker.retry_backoff", "worker.commit_interval",
	"pipeline.cache_ttl", "pipeline.default_mode", "pipeline.enable_archive", "pipeline.enable_events",
	"log.level", "log.format", "log.output",
}

// newViper builds a pre-configured viper instance: YAML files, NEXUS_ env
// prefix, automatic env binding, and a key replacer so "database.host"
// resolves from NEXUS_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range knownKeys {
		v.SetDefault(key, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges NEXUS_* environment
// overrides, applies defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from NEXUS_* environment variables alone, the
// preferred strategy for containerized deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with each newly parsed
// Config.  Intended for hot-reloading non-critical settings such as log
// level; callers apply only the safe subset at runtime.  A change that fails
// to parse or validate is dropped without invoking onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Callers are expected to have called Load first; a read error here
	// just means the watcher starts from an empty state.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error; for use in main() where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
