package catfocus

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultDatabaseURL = "file:catfocus?mode=memory&cache=shared"
	DefaultFocus       = 25 * time.Minute
	DefaultBreak       = 5 * time.Minute
)

type Config struct {
	DatabaseURL     string        `env:"CATFOCUS_DB_PATH"            envDefault:"file:catfocus?mode=memory&cache=shared"`
	Focus           time.Duration `env:"CATFOCUS_FOCUS_DURATION"     envDefault:"25m"`
	Break           time.Duration `env:"CATFOCUS_BREAK_DURATION"     envDefault:"5m"`
	DrawProbability float64       `env:"CATFOCUS_DRAW_PROBABILITY"   envDefault:"0.30"`
	CatalogPath     string        `env:"CATFOCUS_CATALOG_PATH"`
	StartingTreats  int           `env:"CATFOCUS_STARTING_TREATS"    envDefault:"5"`
	StartingToys    int           `env:"CATFOCUS_STARTING_TOYS"      envDefault:"3"`
	LogLevel        string        `env:"CATFOCUS_LOG_LEVEL"          envDefault:"info"`
	DiscordToken    string        `env:"CATFOCUS_DISCORD_TOKEN"`
	DiscordChannel  string        `env:"CATFOCUS_DISCORD_CHANNEL_ID"`
}

// LoadConfig reads .env (CATFOCUS_ENV=prod) or .env.dev, then the process environment.
func LoadConfig() (Config, error) {
	if os.Getenv("CATFOCUS_ENV") == "prod" {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required environment variable: CATFOCUS_DB_PATH")
	}
	if c.Focus <= 0 || c.Break <= 0 {
		return fmt.Errorf("session durations must be positive: focus=%s break=%s", c.Focus, c.Break)
	}
	if c.DrawProbability < 0 || c.DrawProbability > 1 {
		return fmt.Errorf("draw probability %v out of range [0,1]", c.DrawProbability)
	}
	if c.StartingTreats < 0 || c.StartingToys < 0 {
		return fmt.Errorf("starting balances must not be negative")
	}
	if c.DiscordToken != "" && c.DiscordChannel == "" {
		return fmt.Errorf("required environment variable: CATFOCUS_DISCORD_CHANNEL_ID")
	}
	return nil
}
