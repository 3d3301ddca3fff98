package config

import (
	"fmt"
	"sync"

	"bookinglink/core/constants"
	"bookinglink/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type NylasConfig struct {
	APIURI      string
	APIKey      string
	ClientID    string
	RedirectURI string
}

type BookingConfig struct {
	BusinessHoursStart     string
	BusinessHoursEnd       string
	SlotDurationMinutes    int
	RateLimitWindowSeconds int
	RateLimitRequests      int
}

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	GoogleAPI  GoogleAPIConfig
	Nylas      NylasConfig
	Booking    BookingConfig
	Provider   string // "google" | "nylas"
	EncryptKey string
	JWTSecret  string
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads configuration from the environment (and .env when present) and
// installs the package singleton.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("config: no .env file loaded", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bookinglink")
	v.SetDefault("DB_SSLMODE", constants.DatabaseSSLMode)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CALENDAR_PROVIDER", "google")
	v.SetDefault("NYLAS_API_URI", "https://api.us.nylas.com")
	v.SetDefault("BUSINESS_HOURS_START", constants.DefaultBusinessHoursStart)
	v.SetDefault("BUSINESS_HOURS_END", constants.DefaultBusinessHoursEnd)
	v.SetDefault("SLOT_DURATION_MINUTES", constants.DefaultSlotDurationMinutes)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", int(constants.RateLimitWindow.Seconds()))
	v.SetDefault("RATE_LIMIT_REQUESTS", constants.RateLimitRequests)

	cfg := &Config{
		Server: ServerConfig{
			Host:    v.GetString("SERVER_HOST"),
			Port:    v.GetInt("SERVER_PORT"),
			BaseURL: v.GetString("SERVER_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		},
		Nylas: NylasConfig{
			APIURI:      v.GetString("NYLAS_API_URI"),
			APIKey:      v.GetString("NYLAS_API_KEY"),
			ClientID:    v.GetString("NYLAS_CLIENT_ID"),
			RedirectURI: v.GetString("NYLAS_REDIRECT_URI"),
		},
		Booking: BookingConfig{
			BusinessHoursStart:     v.GetString("BUSINESS_HOURS_START"),
			BusinessHoursEnd:       v.GetString("BUSINESS_HOURS_END"),
			SlotDurationMinutes:    v.GetInt("SLOT_DURATION_MINUTES"),
			RateLimitWindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			RateLimitRequests:      v.GetInt("RATE_LIMIT_REQUESTS"),
		},
		Provider:   v.GetString("CALENDAR_PROVIDER"),
		EncryptKey: v.GetString("ENCRYPTION_KEY"),
		JWTSecret:  v.GetString("JWT_SECRET"),
	}

	if cfg.EncryptKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if cfg.Provider != "google" && cfg.Provider != "nylas" {
		return nil, fmt.Errorf("unknown CALENDAR_PROVIDER %q", cfg.Provider)
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the loaded configuration. Panics when Load has not run.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Get called before Load")
	}
	return cfg
}

// GetSafe returns the loaded configuration and whether it is initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// Set installs a configuration directly. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
