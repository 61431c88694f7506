package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Chat   ChatConfig   `yaml:"chat"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	WebhookToken string `yaml:"webhook_token"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SweepConfig holds the periodic reconciliation thresholds.
type SweepConfig struct {
	Period        Duration `yaml:"period"`
	IdleThreshold Duration `yaml:"idle_threshold"`
	NagInterval   Duration `yaml:"nag_interval"`
	MaxTimeTaken  Duration `yaml:"max_time_taken"`
	Concurrency   int      `yaml:"concurrency"`
}

// Duration accepts Go duration strings like "48h" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

type ChatConfig struct {
	TeamLeadChannelID string `yaml:"team_lead_channel_id"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "steward.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Sweep: SweepConfig{
			Period:        Duration(time.Hour),
			IdleThreshold: Duration(24 * time.Hour),
			NagInterval:   Duration(48 * time.Hour),
			MaxTimeTaken:  Duration(21 * 24 * time.Hour),
			Concurrency:   8,
		},
	}

	if path := os.Getenv("STEWARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("STEWARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("STEWARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STEWARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if token := os.Getenv("STEWARD_WEBHOOK_TOKEN"); token != "" {
		cfg.Server.WebhookToken = token
	}
	if dbPath := os.Getenv("STEWARD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("STEWARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if period := os.Getenv("STEWARD_SWEEP_PERIOD"); period != "" {
		d, err := time.ParseDuration(period)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STEWARD_SWEEP_PERIOD: %w", err)
		}
		cfg.Sweep.Period = Duration(d)
	}
	if channel := os.Getenv("STEWARD_TEAM_LEAD_CHANNEL"); channel != "" {
		cfg.Chat.TeamLeadChannelID = channel
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Sweep.Period <= 0 {
		return fmt.Errorf("sweep period must be positive, got %s", c.Sweep.Period)
	}
	if c.Sweep.IdleThreshold <= 0 {
		return fmt.Errorf("sweep idle threshold must be positive, got %s", c.Sweep.IdleThreshold)
	}
	if c.Sweep.NagInterval <= 0 {
		return fmt.Errorf("sweep nag interval must be positive, got %s", c.Sweep.NagInterval)
	}
	if c.Sweep.MaxTimeTaken <= 0 {
		return fmt.Errorf("sweep max time taken must be positive, got %s", c.Sweep.MaxTimeTaken)
	}
	if c.Sweep.Concurrency <= 0 {
		return fmt.Errorf("sweep concurrency must be positive, got %d", c.Sweep.Concurrency)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
