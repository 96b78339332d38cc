package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gridblitz/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Logging   LoggingConfig   `json:"logging"`
	Sim       SimConfig       `json:"sim"`
	Broadcast BroadcastConfig `json:"broadcast"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`
	// CronSecret authenticates the external scheduler that drives ticks.
	CronSecret string `json:"-"`
}

// DatabaseConfig holds MongoDB settings.
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"-"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// SimConfig holds season simulation settings.
type SimConfig struct {
	// MasterSeed deterministically derives the league, schedule, and per-game
	// client seeds for a season. Empty means a random seed per season.
	MasterSeed string `json:"master_seed"`
	// TickBudget bounds how long one tick may spend simulating.
	TickBudget time.Duration `json:"tick_budget"`
	// GameGap is the dead air between a broadcast finishing and the next
	// game in the week starting.
	GameGap time.Duration `json:"game_gap"`
	// WeekGap is the pause after a week's last game before the week advances.
	WeekGap time.Duration `json:"week_gap"`
	// OffseasonGap is the pause after the championship before the next
	// season is created.
	OffseasonGap time.Duration `json:"offseason_gap"`
}

// BroadcastConfig holds SSE delivery settings.
type BroadcastConfig struct {
	// MaxEventDelay caps the pause between replayed events for clients
	// joining mid-broadcast.
	MaxEventDelay time.Duration `json:"max_event_delay"`
	// HeartbeatInterval keeps idle connections alive through proxies.
	HeartbeatInterval time.Duration `json:"heartbeat_interval"`
	// ReconnectAfter tells clients how long to wait before retrying.
	ReconnectAfter time.Duration `json:"reconnect_after"`
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env is normal outside development.
		logging.Debugf("No .env file loaded: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Environment: environment,
			CronSecret:  getEnv("CRON_SECRET", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "gridblitz"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "gridblitz"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Sim: SimConfig{
			MasterSeed:   getEnv("MASTER_SEED", ""),
			TickBudget:   getDurationEnv("TICK_BUDGET", 60*time.Second),
			GameGap:      getDurationEnv("GAME_GAP", 15*time.Minute),
			WeekGap:      getDurationEnv("WEEK_GAP", 30*time.Minute),
			OffseasonGap: getDurationEnv("OFFSEASON_GAP", 30*time.Minute),
		},
		Broadcast: BroadcastConfig{
			MaxEventDelay:     getDurationEnv("SSE_MAX_EVENT_DELAY", 10*time.Second),
			HeartbeatInterval: getDurationEnv("SSE_HEARTBEAT_INTERVAL", 15*time.Second),
			ReconnectAfter:    getDurationEnv("SSE_RECONNECT_AFTER", 270*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate checks required fields and sensible values.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Server.CronSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("CRON_SECRET is required outside development")
	}
	if c.Sim.TickBudget < 5*time.Second {
		return fmt.Errorf("tick budget %s is too short to simulate a slate", c.Sim.TickBudget)
	}
	if c.Sim.GameGap < 0 || c.Sim.WeekGap < 0 || c.Sim.OffseasonGap < 0 {
		return fmt.Errorf("scheduling gaps must not be negative")
	}
	if c.Broadcast.MaxEventDelay <= 0 || c.Broadcast.HeartbeatInterval <= 0 {
		return fmt.Errorf("broadcast delays must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Server.Environment) == "development"
}

// GetServerAddress returns host:port for the HTTP listener.
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// LogConfiguration logs the active configuration without secrets.
func (c *Config) LogConfiguration() {
	logging.Info("=== GridBlitz Configuration ===")
	logging.Infof("Server: %s (Environment: %s, CronSecret set: %t)",
		c.GetServerAddress(), c.Server.Environment, c.Server.CronSecret != "")
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "")
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor)
	logging.Infof("Sim: MasterSeed set=%t, TickBudget=%s, GameGap=%s, WeekGap=%s, OffseasonGap=%s",
		c.Sim.MasterSeed != "", c.Sim.TickBudget, c.Sim.GameGap, c.Sim.WeekGap, c.Sim.OffseasonGap)
	logging.Infof("Broadcast: MaxEventDelay=%s, Heartbeat=%s, Reconnect=%s",
		c.Broadcast.MaxEventDelay, c.Broadcast.HeartbeatInterval, c.Broadcast.ReconnectAfter)
	logging.Info("===============================")
}

// Helper functions for environment variable parsing.

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
