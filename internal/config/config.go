package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	UI       UIConfig       `mapstructure:"ui"`
	Data     DataConfig     `mapstructure:"data"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
	PageSize     int    `mapstructure:"page_size"`
}

type DataConfig struct {
	MaxCellDisplayLength int `mapstructure:"max_cell_display_length"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// PostgresConfig configures the optional PostgreSQL dataset source. When DSN
// and Query are set, `sift <schema.yaml>` with no data file loads from here.
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Query string `mapstructure:"query"`
}

// GetDefaults returns a Config with all default values.
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
			PageSize:     50,
		},
		Data: DataConfig{
			MaxCellDisplayLength: 50,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
			File:  "sift.log",
		},
	}
}

// Load loads configuration from config.yaml, searching the user config
// directory and the current directory. Missing files fall back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "sift"))
	}
	v.AddConfigPath(".")

	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("ui.page_size", 50)
	v.SetDefault("data.max_cell_display_length", 50)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "sift.log")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.query", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Dir returns the user config directory for sift, creating it if needed.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "sift")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
