// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKeys  struct {
		DashScope string `mapstructure:"dashscope"`
		Anthropic string `mapstructure:"anthropic"`
	} `mapstructure:"api_keys"`
	Ollama struct {
		Host string `mapstructure:"host"`
	} `mapstructure:"ollama"`
	Report struct {
		Attempts       int `mapstructure:"attempts"`
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	} `mapstructure:"report"`
	Classification struct {
		Rules map[string]string `mapstructure:"rules"`
	} `mapstructure:"classification"`
	Alerts struct {
		TimeSavingsFactor float64 `mapstructure:"time_savings_factor"`
	} `mapstructure:"alerts"`
	Output struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.inq/config.yaml and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	// Defaults
	viper.SetDefault("provider", "qwen")
	viper.SetDefault("model", "qwen-max")
	viper.SetDefault("report.attempts", 2)
	viper.SetDefault("report.timeout_seconds", 120)
	viper.SetDefault("alerts.time_savings_factor", 0.6)
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")

	// Environment variable overrides
	viper.SetEnvPrefix("INQ")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Dir returns the application data directory (~/.inq).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inq"
	}
	return filepath.Join(home, ".inq")
}
