package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/logging"
)

// Config holds all application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Kafka       KafkaConfig      `mapstructure:"kafka"`
	JWT         JWTConfig        `mapstructure:"jwt"`
	Logging     logging.Config   `mapstructure:"logging"`
	Ledger      LedgerConfig     `mapstructure:"ledger"`
	Randomness  RandomnessConfig `mapstructure:"randomness"`
	Games       GamesConfig      `mapstructure:"games"`
	Feed        FeedConfig       `mapstructure:"feed"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	EnableCORS   bool          `mapstructure:"enable_cors"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LedgerConfig selects and configures the balance ledger backend.
// Backend is one of "http", "redis" or "memory".
type LedgerConfig struct {
	Backend string        `mapstructure:"backend"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RandomnessConfig configures the randomness strategy and seed storage
type RandomnessConfig struct {
	Type    string        `mapstructure:"type"`
	Vault   string        `mapstructure:"vault"`
	SeedTTL time.Duration `mapstructure:"seed_ttl"`
	TxnTTL  time.Duration `mapstructure:"txn_ttl"`
}

// GamesConfig points at the slot game definition files
type GamesConfig struct {
	ConfigDir string `mapstructure:"config_dir"`
}

// FeedConfig configures the live settlement feed
type FeedConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	BufferSize    int           `mapstructure:"buffer_size"`
}

// Load loads configuration from YAML file using Viper
func Load(filename string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(filename)
	v.SetConfigType("yaml")

	// Enable environment variable substitution
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setDefaults()

	return &config, nil
}

// LoadByEnv loads configuration based on environment using Viper
func LoadByEnv(configDir string) (*Config, error) {
	v := viper.New()

	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	env := viper.GetString("ENV")
	if env == "" {
		env = viper.GetString("APP_ENV")
	}
	if env == "" {
		env = "development"
	}

	v.SetConfigName(fmt.Sprintf("config-%s", env))
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setDefaults()

	return &config, nil
}

// setDefaults sets default values for missing configuration
func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = "memory"
	}
	if c.Ledger.Timeout == 0 {
		c.Ledger.Timeout = 10 * time.Second
	}
	if c.Randomness.Type == "" {
		c.Randomness.Type = "PF"
	}
	if c.Randomness.Vault == "" {
		c.Randomness.Vault = "memory"
	}
	if c.Randomness.SeedTTL == 0 {
		c.Randomness.SeedTTL = 24 * time.Hour
	}
	if c.Randomness.TxnTTL == 0 {
		c.Randomness.TxnTTL = 24 * time.Hour
	}
	if c.Games.ConfigDir == "" {
		c.Games.ConfigDir = "configs/games"
	}
	if c.Feed.FlushInterval == 0 {
		c.Feed.FlushInterval = 2 * time.Second
	}
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = 100
	}
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return c.Addr
}

// IsDevelopment returns true if environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsProduction returns true if environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
