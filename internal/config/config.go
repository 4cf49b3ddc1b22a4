package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	RegistryService ServiceConfig
	Kafka           KafkaConfig
	Auth            AuthConfig
	Logging         LoggingConfig
	Engine          EngineConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database specific configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServiceConfig holds configuration for external services
type ServiceConfig struct {
	URL        string
	Timeout    time.Duration
	ServiceKey string
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Brokers string
	Topics  map[string]string
}

// AuthConfig holds service authentication configuration
type AuthConfig struct {
	Enabled    bool
	ServiceKey string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// EngineConfig holds tuning knobs for the insight engine
type EngineConfig struct {
	RunwayWindowMonths   int
	ForecastHorizonYears int
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8086")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", "30m")

	// Registry Service defaults
	v.SetDefault("registryService.url", "http://registry-service:8090")
	v.SetDefault("registryService.timeout", "30s")
	v.SetDefault("registryService.serviceKey", "intelligence-service-key")

	// Auth defaults
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.serviceKey", "intelligence-service-key")

	// Kafka topic defaults
	v.SetDefault("kafka.topics.tagApplied", "record-tag-applied")
	v.SetDefault("kafka.topics.recordsSynced", "records-synced")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Engine defaults
	v.SetDefault("engine.runwayWindowMonths", 3)
	v.SetDefault("engine.forecastHorizonYears", 10)
}
