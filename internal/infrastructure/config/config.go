package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "github.com/azampay/momo-checkout/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	AzamPay   sharedConfig.AzamPayConfig   `mapstructure:"azampay"`
	Lock      sharedConfig.LockConfig      `mapstructure:"lock"`
	Notice    sharedConfig.NoticeConfig    `mapstructure:"notice"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration from the given file (or ./configs/config.yaml) and
// MOMO_-prefixed environment variables. A missing config file is not an error;
// defaults plus environment are enough to boot.
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("MOMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.AzamPay.AllowedPartners) == 0 {
		config.AzamPay.AllowedPartners = nil
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.timezone", "Africa/Dar_es_Salaam")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.sqlite_path", "momo_checkout.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "momo_checkout")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("azampay.enabled", true)
	v.SetDefault("azampay.test_mode", true)
	v.SetDefault("azampay.autocomplete_order", false)
	v.SetDefault("azampay.instructions", "")
	v.SetDefault("azampay.store_currency", "TZS")
	v.SetDefault("azampay.supported_currencies", []string{"TZS"})
	v.SetDefault("azampay.request_timeout", 30*time.Second)
	v.SetDefault("azampay.breaker.max_requests", 1)
	v.SetDefault("azampay.breaker.interval", time.Minute)
	v.SetDefault("azampay.breaker.timeout", 30*time.Second)
	v.SetDefault("azampay.breaker.consecutive_failures", 5)

	v.SetDefault("lock.ttl", 30*time.Second)
	v.SetDefault("lock.wait_timeout", 10*time.Second)
	v.SetDefault("lock.retry_backoff", 50*time.Millisecond)

	v.SetDefault("notice.ttl", 24*time.Hour)

	v.SetDefault("rate_limit.checkout_per_minute", 5)
	v.SetDefault("rate_limit.checkout_per_hour", 30)
}
