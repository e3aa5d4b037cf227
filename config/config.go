package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Log   LogConfig
	Sale  SaleConfig
	Admin AdminConfig
	Audit AuditConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type LogConfig struct {
	Level string
	// File enables a rotated log file next to stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type SaleConfig struct {
	// NegativeTotal is "clamp" or "allow".
	NegativeTotal string
}

type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

type AuditConfig struct {
	RetentionSchedule string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional; plain environment variables are enough
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			File:       viper.GetString("LOG_FILE"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Sale: SaleConfig{
			NegativeTotal: viper.GetString("SALE_NEGATIVE_TOTAL"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			FullName: viper.GetString("ADMIN_FULL_NAME"),
		},
		Audit: AuditConfig{
			RetentionSchedule: viper.GetString("AUDIT_RETENTION_SCHEDULE"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_MAX_SIZE_MB", 100)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 30)
	viper.SetDefault("SALE_NEGATIVE_TOTAL", "clamp")
	viper.SetDefault("ADMIN_FULL_NAME", "Administrator")
	viper.SetDefault("AUDIT_RETENTION_SCHEDULE", "@daily")
}
