// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"

	"tokini/internal/dice"
	"tokini/internal/notify"
)

// Config holds all server configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"TOKINI_DB_PATH"`
	LogLevel string `env:"TOKINI_LOG_LEVEL" envDefault:"info"`

	AmbientTick    time.Duration `env:"TOKINI_AMBIENT_TICK" envDefault:"800ms"`
	RollTick       time.Duration `env:"TOKINI_ROLL_TICK" envDefault:"100ms"`
	RollDuration   time.Duration `env:"TOKINI_ROLL_DURATION" envDefault:"2s"`
	SettleDuration time.Duration `env:"TOKINI_SETTLE_DURATION" envDefault:"600ms"`

	NoticeTTL       time.Duration `env:"TOKINI_NOTICE_TTL" envDefault:"3s"`
	NoticeFade      time.Duration `env:"TOKINI_NOTICE_FADE" envDefault:"300ms"`
	UpdatePromptTTL time.Duration `env:"TOKINI_UPDATE_PROMPT_TTL" envDefault:"10s"`

	SessionIdleTTL time.Duration `env:"TOKINI_SESSION_IDLE_TTL" envDefault:"30m"`
	SessionSweep   time.Duration `env:"TOKINI_SESSION_SWEEP" envDefault:"1m"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port is required")
	}
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"TOKINI_AMBIENT_TICK", c.AmbientTick},
		{"TOKINI_ROLL_TICK", c.RollTick},
		{"TOKINI_ROLL_DURATION", c.RollDuration},
		{"TOKINI_SETTLE_DURATION", c.SettleDuration},
		{"TOKINI_NOTICE_TTL", c.NoticeTTL},
		{"TOKINI_NOTICE_FADE", c.NoticeFade},
		{"TOKINI_UPDATE_PROMPT_TTL", c.UpdatePromptTTL},
		{"TOKINI_SESSION_IDLE_TTL", c.SessionIdleTTL},
		{"TOKINI_SESSION_SWEEP", c.SessionSweep},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("TOKINI_LOG_LEVEL: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + strings.TrimSpace(c.Port)
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DiceTiming returns the animation cadence.
func (c Config) DiceTiming() dice.Timing {
	return dice.Timing{
		AmbientTick:    c.AmbientTick,
		RollTick:       c.RollTick,
		RollDuration:   c.RollDuration,
		SettleDuration: c.SettleDuration,
	}
}

// NoticeTiming returns the notice lifetimes.
func (c Config) NoticeTiming() notify.Timing {
	return notify.Timing{
		NoticeTTL:       c.NoticeTTL,
		NoticeFade:      c.NoticeFade,
		UpdatePromptTTL: c.UpdatePromptTTL,
	}
}
