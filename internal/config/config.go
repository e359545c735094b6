package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// OpenAIConfig holds realtime session settings
type OpenAIConfig struct {
	APIKey      string
	Voice       string
	Temperature float64
	// GreetFirst makes the assistant speak before the caller does.
	GreetFirst bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	// StreamHost is the externally reachable host used in the TwiML
	// Stream URL; empty means use the request host.
	StreamHost string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Database configuration
	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// OpenAI configuration
	if cfg.OpenAI.APIKey, err = requireEnv("OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	cfg.OpenAI.Voice = getEnvWithDefault("OPENAI_VOICE", "cedar")
	temperature := getEnvWithDefault("OPENAI_TEMPERATURE", "0.7")
	cfg.OpenAI.Temperature, err = strconv.ParseFloat(temperature, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OPENAI_TEMPERATURE: %w", err)
	}
	cfg.OpenAI.GreetFirst = getEnvWithDefault("GREET_FIRST", "true") == "true"

	// Server configuration
	serverPort := getEnvWithDefault("SERVER_PORT", "5050")
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	cfg.Server.StreamHost = os.Getenv("STREAM_HOST")

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
