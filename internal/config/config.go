package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded from the environment with an
// optional .env file on top.
type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	DiscordToken  string `env:"DISCORD_TOKEN"`

	CommandPrefix   string  `env:"COMMAND_PREFIX" envDefault:"."`
	StoragePath     string  `env:"STORAGE_PATH" envDefault:"modbot.json"`
	RedactResponses bool    `env:"REDACT_RESPONSES" envDefault:"false"`
	SendRate        float64 `env:"SEND_RATE" envDefault:"5"`
	SendBurst       int     `env:"SEND_BURST" envDefault:"5"`
}

// New loads the configuration. A missing .env file is fine; the system
// environment alone is enough.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.CommandPrefix == "" {
		return nil, fmt.Errorf("config: COMMAND_PREFIX cannot be empty")
	}
	return cfg, nil
}
