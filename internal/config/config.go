package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Game     GameConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string // empty means Postgres is not used
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string // empty means Redis is not used
}

// GameConfig holds battle engine tuning
type GameConfig struct {
	// ResortOnJoin re-sorts the whole initiative order whenever a player
	// joins, matching the bot's long-standing behavior. Disable to preserve
	// rotation order for mid-battle joins.
	ResortOnJoin bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Game: GameConfig{
			ResortOnJoin: getEnvAsBoolOrDefault("BATTLE_RESORT_ON_JOIN", true),
		},
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
