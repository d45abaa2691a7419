package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DBConfig struct {
	DSN string `mapstructure:"dsn"`
	// LogLevel is one of silent, error, warn, info.
	LogLevel      string        `mapstructure:"log_level"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Config struct {
	Env         Env            `mapstructure:"env"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DBConfig       `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Mpesa       MpesaConfig    `mapstructure:"mpesa"`
	Registry    RegistryConfig `mapstructure:"registry"`
	Audit       AuditConfig    `mapstructure:"audit"`
	Notifier    NotifierConfig `mapstructure:"notifier"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
}

// MpesaConfig holds Daraja API credentials. Environment is "sandbox" or "production".
type MpesaConfig struct {
	ConsumerKey       string        `mapstructure:"consumer_key"`
	ConsumerSecret    string        `mapstructure:"consumer_secret"`
	BusinessShortCode string        `mapstructure:"business_short_code"`
	Passkey           string        `mapstructure:"passkey"`
	CallbackURL       string        `mapstructure:"callback_url"`
	Environment       string        `mapstructure:"environment"`
	AccountReference  string        `mapstructure:"account_reference"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
}

func (c MpesaConfig) IsSandbox() bool {
	return c.Environment != "production"
}

type RegistryConfig struct {
	// Retention is how long terminal records are kept before pruning.
	Retention          time.Duration `mapstructure:"retention"`
	PruneInterval      time.Duration `mapstructure:"prune_interval"`
	StuckAfter         time.Duration `mapstructure:"stuck_after"`
	DefaultWaitTimeout time.Duration `mapstructure:"default_wait_timeout"`
	MaxWaitTimeout     time.Duration `mapstructure:"max_wait_timeout"`
}

type AuditConfig struct {
	Dir         string `mapstructure:"dir"`
	RedisKey    string `mapstructure:"redis_key"`
	RedisMaxLen int64  `mapstructure:"redis_max_len"`
}

type NotifierConfig struct {
	Buffer int `mapstructure:"buffer"`
}

// ClampWait bounds a caller supplied wait timeout to the configured range,
// substituting the default when the caller did not ask for one.
func (c RegistryConfig) ClampWait(d time.Duration) time.Duration {
	if d <= 0 {
		d = c.DefaultWaitTimeout
	}
	if c.MaxWaitTimeout > 0 && d > c.MaxWaitTimeout {
		d = c.MaxWaitTimeout
	}
	return d
}

func New() (*Config, error) {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_ = err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8001)
	// empty DSN / addr disables the backend
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", 500*time.Millisecond)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("metrics_addr", ":9090")

	v.SetDefault("mpesa.consumer_key", "")
	v.SetDefault("mpesa.consumer_secret", "")
	v.SetDefault("mpesa.business_short_code", "")
	v.SetDefault("mpesa.passkey", "")
	v.SetDefault("mpesa.callback_url", "")
	v.SetDefault("mpesa.environment", "sandbox")
	v.SetDefault("mpesa.account_reference", "AI Agent")
	v.SetDefault("mpesa.http_timeout", 30*time.Second)

	v.SetDefault("registry.retention", 24*time.Hour)
	v.SetDefault("registry.prune_interval", time.Hour)
	v.SetDefault("registry.stuck_after", 5*time.Minute)
	v.SetDefault("registry.default_wait_timeout", 120*time.Second)
	v.SetDefault("registry.max_wait_timeout", 300*time.Second)

	v.SetDefault("audit.dir", "logs")
	v.SetDefault("audit.redis_key", "paytrack:callbacks")
	v.SetDefault("audit.redis_max_len", 10000)

	v.SetDefault("notifier.buffer", 256)
}

var Module = fx.Options(
	fx.Provide(New),
)
