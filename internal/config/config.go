package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"donna/internal/model"
)

// Config is the full environment-sourced configuration: credentials,
// connection strings and listener settings. Behavior settings (persona,
// taxonomy, model selection) live in config.yaml, see LoadBot.
type Config struct {
	Log      model.LogConfig      `envconfig:""`
	LLM      model.LLMConfig      `envconfig:""`
	Google   model.GoogleConfig   `envconfig:""`
	WhatsApp model.WhatsAppConfig `envconfig:""`
	Redis    model.RedisConfig    `envconfig:""`
	Pool     model.PoolConfig     `envconfig:""`
	Server   model.ServerConfig   `envconfig:""`
}

// Load reads .env if present and resolves the environment configuration.
func Load() (*Config, error) {
	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	return &config, nil
}

// LoadBot loads the behavior configuration from a yaml file.
func LoadBot(filepath string) (*model.BotConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config model.BotConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *model.BotConfig) {
	if config.Model.Name == "" {
		config.Model.Name = "gpt-4o-mini"
	}
	if config.Model.MaxTokens == 0 {
		config.Model.MaxTokens = 1500
	}
	if config.Timezone == "" {
		config.Timezone = "Asia/Kolkata"
	}
	if config.MaxContextTurns == 0 {
		config.MaxContextTurns = 20
	}
	if config.ConversationTTLSeconds == 0 {
		config.ConversationTTLSeconds = 7 * 24 * 3600
	}
	if config.Persona == "" {
		config.Persona = "You are a helpful personal assistant. Keep replies short, friendly and practical."
	}
}
