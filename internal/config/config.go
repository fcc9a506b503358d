package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Admin    AdminConfig    `toml:"admin"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	PublicBaseURL   string `toml:"public_base_url"` // внешний адрес для ссылок подтверждения
	ReadTimeout     int    `toml:"read_timeout"`    // секунды
	WriteTimeout    int    `toml:"write_timeout"`   // секунды
	IdleTimeout     int    `toml:"idle_timeout"`    // секунды
	ShutdownTimeout int    `toml:"shutdown_timeout"`
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

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig бизнес-настройки записи
type BookingConfig struct {
	DefaultDurationMinutes int `toml:"default_duration_minutes"`
	ListLimit              int `toml:"list_limit"` // лимит админского списка записей
}

// SMTPConfig настройки исходящей почты
type SMTPConfig struct {
	Enabled    bool   `toml:"enabled"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	From       string `toml:"from"`
	OwnerEmail string `toml:"owner_email"`
	Timeout    int    `toml:"timeout"` // секунды
}

// AdminConfig настройки доступа к админским ручкам
type AdminConfig struct {
	Token string `toml:"token"` // bearer-токен для /api/v1/admin/*
}

// Load читает конфигурацию из TOML-файла и применяет дефолты
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			PublicBaseURL:   "http://localhost:8080",
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		Booking: BookingConfig{
			DefaultDurationMinutes: 30,
			ListLimit:              500,
		},
		SMTP: SMTPConfig{
			Port:    587,
			Timeout: 10,
		},
	}
}

func (c *Config) validate() error {
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Booking.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("config: booking.default_duration_minutes must be positive")
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("config: admin.token is required")
	}
	return nil
}
