package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректной конфигурации сервиса
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	PaymentGateway PaymentGatewayConfig `toml:"payment_gateway"`
	Booking        BookingConfig        `toml:"booking"`
	Admin          AdminConfig          `toml:"admin"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// PaymentGatewayConfig настройки платёжного шлюза
// WebhookSecret - общий секрет для проверки HMAC-подписи уведомлений
type PaymentGatewayConfig struct {
	URL           string `toml:"url"`
	APIKey        string `toml:"api_key"`
	WebhookSecret string `toml:"webhook_secret"`
	Timeout       int    `toml:"timeout"` // секунды
	Currency      string `toml:"currency"`
}

// BookingConfig настройки жизненного цикла бронирований
type BookingConfig struct {
	// Окно ожидания платежа; pending-бронирования старше этого окна
	// снимаются reconcile-проходом с освобождением слота
	PaymentSessionTTLMinutes int `toml:"payment_session_ttl_minutes"`
}

// AdminConfig настройки доступа к административным операциям
type AdminConfig struct {
	Token string `toml:"token"`
}

// Load загружает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in (0, 65535]", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.PaymentGateway.URL == "" {
		return fmt.Errorf("%w: payment_gateway.url is required", ErrInvalidConfig)
	}
	if c.PaymentGateway.WebhookSecret == "" {
		return fmt.Errorf("%w: payment_gateway.webhook_secret is required", ErrInvalidConfig)
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("%w: admin.token is required", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "court-booking-service"
	}
	if c.PaymentGateway.Timeout == 0 {
		c.PaymentGateway.Timeout = 10
	}
	if c.PaymentGateway.Currency == "" {
		c.PaymentGateway.Currency = "RUB"
	}
	if c.Booking.PaymentSessionTTLMinutes == 0 {
		c.Booking.PaymentSessionTTLMinutes = 15
	}
}
