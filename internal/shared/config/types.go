package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url" validate:"required,url"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// NoticeSecret signs the tokens that let a shopper read their notices.
	NoticeSecret   string   `mapstructure:"notice_secret" validate:"required,min=16"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite". SQLitePath is used only for sqlite.
	Driver          string `mapstructure:"driver"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AzamPayCredentials holds one mode's application credentials.
type AzamPayCredentials struct {
	AppName       string `mapstructure:"app_name"`
	ClientID      string `mapstructure:"client_id"`
	ClientSecret  string `mapstructure:"client_secret"`
	CallbackToken string `mapstructure:"callback_token"`
}

// AzamPayEndpoints overrides the provider base URLs. Empty values fall back
// to the built-in sandbox or production hosts.
type AzamPayEndpoints struct {
	CheckoutBaseURL string `mapstructure:"checkout_base_url"`
	AuthBaseURL     string `mapstructure:"auth_base_url"`
}

type AzamPayConfig struct {
	Enabled             bool               `mapstructure:"enabled"`
	TestMode            bool               `mapstructure:"test_mode"`
	Test                AzamPayCredentials `mapstructure:"test"`
	Production          AzamPayCredentials `mapstructure:"production"`
	TestEndpoints       AzamPayEndpoints   `mapstructure:"test_endpoints"`
	ProductionEndpoints AzamPayEndpoints   `mapstructure:"production_endpoints"`
	AutocompleteOrder   bool               `mapstructure:"autocomplete_order"`
	Instructions        string             `mapstructure:"instructions"`
	AllowedPartners     map[string]bool    `mapstructure:"allowed_partners"`
	StoreCurrency       string             `mapstructure:"store_currency"`
	SupportedCurrencies []string           `mapstructure:"supported_currencies"`
	RequestTimeout      time.Duration      `mapstructure:"request_timeout"`
	Breaker             BreakerConfig      `mapstructure:"breaker"`
}

// BreakerConfig tunes the circuit breaker guarding outbound provider calls.
type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

type LockConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	WaitTimeout  time.Duration `mapstructure:"wait_timeout"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type NoticeConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig bounds checkout submissions per client IP. Each submission
// pushes a payment prompt to a wallet. Zero disables a window.
type RateLimitConfig struct {
	CheckoutPerMinute int `mapstructure:"checkout_per_minute"`
	CheckoutPerHour   int `mapstructure:"checkout_per_hour"`
}
