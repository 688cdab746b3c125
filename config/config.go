package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string   `mapstructure:"APP_PORT"`
	Env               string   `mapstructure:"ENV"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    []string `mapstructure:"ALLOWED_ORIGINS"`
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the socket address is always used.
	TrustedProxies    []string `mapstructure:"TRUSTED_PROXIES"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking wizard.
	SessionTTLMinutes      int      `mapstructure:"SESSION_TTL_MINUTES"`
	CatalogCacheTTLMinutes int      `mapstructure:"CATALOG_CACHE_TTL_MINUTES"`
	SubmitLockSeconds      int      `mapstructure:"SUBMIT_LOCK_SECONDS"`
	TimeSlots              []string `mapstructure:"TIME_SLOTS"`
	CatalogSeedFile        string   `mapstructure:"CATALOG_SEED_FILE"`

	// Notification queue.
	NotificationsEnabled bool `mapstructure:"NOTIFICATIONS_ENABLED"`
	WorkerConcurrency    int  `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

// DefaultTimeSlots is the placeholder slot list offered on every day.
var DefaultTimeSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "clinic")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("CATALOG_CACHE_TTL_MINUTES", 10)
	viper.SetDefault("SUBMIT_LOCK_SECONDS", 30)
	viper.SetDefault("TIME_SLOTS", DefaultTimeSlots)
	viper.SetDefault("CATALOG_SEED_FILE", "config/catalog.yaml")
	viper.SetDefault("NOTIFICATIONS_ENABLED", true)
	viper.SetDefault("WORKER_CONCURRENCY", 5)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionTTL is the sliding lifetime of an idle wizard session.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLMinutes) * time.Minute
}

func (c Config) SubmitLockTTL() time.Duration {
	return time.Duration(c.SubmitLockSeconds) * time.Second
}
