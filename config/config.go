package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig points at the receipt ledger. The gateway runs without a
// ledger when Enabled is false or the database is unreachable at startup.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig selects where pairing state survives restarts.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"` // redis, file
	FileDir   string `mapstructure:"file_dir"`
	KeyPrefix string `mapstructure:"key_prefix"`
	Secret    string `mapstructure:"secret"` // empty = store pairing data unsealed
	Salt      string `mapstructure:"salt"`
}

// WalletConfig configures the wallet session client.
type WalletConfig struct {
	Network                string        `mapstructure:"network"`
	RelayURL               string        `mapstructure:"relay_url"` // empty = simulated wallet only
	RelayRequestTimeout    time.Duration `mapstructure:"relay_request_timeout"`
	Debug                  bool          `mapstructure:"debug"`
	PairingTimeout         time.Duration `mapstructure:"pairing_timeout"`
	SimulatedDelay         time.Duration `mapstructure:"simulated_delay"`
	MockTxDelay            time.Duration `mapstructure:"mock_tx_delay"`
	AllowSimulatedFallback bool          `mapstructure:"allow_simulated_fallback"`
	SimulatedAccount       string        `mapstructure:"simulated_account"`
	App                    AppConfig     `mapstructure:"app"`
}

// AppConfig is the metadata shown to the user by the wallet when pairing.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Icon        string `mapstructure:"icon"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WALLETGW_.
// Nested keys use underscore: WALLETGW_WALLET_RELAY_URL, WALLETGW_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "supply_chain")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("storage.driver", "redis")
	v.SetDefault("storage.file_dir", ".walletgw")
	v.SetDefault("storage.key_prefix", "walletgw:")
	v.SetDefault("storage.secret", "")
	v.SetDefault("storage.salt", "supplychain-wallet-gateway")
	v.SetDefault("wallet.network", "testnet")
	v.SetDefault("wallet.relay_url", "")
	v.SetDefault("wallet.relay_request_timeout", "2m")
	v.SetDefault("wallet.debug", false)
	v.SetDefault("wallet.pairing_timeout", "60s")
	v.SetDefault("wallet.simulated_delay", "1s")
	v.SetDefault("wallet.mock_tx_delay", "1500ms")
	v.SetDefault("wallet.allow_simulated_fallback", true)
	v.SetDefault("wallet.simulated_account", "1")
	v.SetDefault("wallet.app.name", "Blockchain Supply Chain")
	v.SetDefault("wallet.app.description", "Track products across the supply chain using Hedera")
	v.SetDefault("wallet.app.icon", "https://www.hedera.com/logo-capital-hbar-wordmark.png")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "supplychain-wallet-gateway")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WALLETGW_WALLET_NETWORK -> wallet.network
	v.SetEnvPrefix("WALLETGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
