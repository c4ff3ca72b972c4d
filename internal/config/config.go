// Package config loads runtime settings from the environment. Command-line
// flags in cmd/jump61 override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"jump61/internal/board"
	"jump61/internal/game"
)

type Config struct {
	Size      int
	Seed      int64
	Red       game.Kind
	Blue      game.Kind
	DBPath    string
	WatchAddr string
	Games     int
	Workers   int
	LogLevel  logrus.Level
}

// Load reads JUMP61_* variables, falling back to defaults for unset ones.
func Load() (*Config, error) {
	var errs []error
	atoi := func(key, def string) int {
		v, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}

	cfg := &Config{
		Size:      atoi("JUMP61_SIZE", "6"),
		DBPath:    getEnv("JUMP61_DB", ""),
		WatchAddr: getEnv("JUMP61_WATCH_ADDR", ""),
		Games:     atoi("JUMP61_GAMES", "1"),
		Workers:   atoi("JUMP61_WORKERS", "1"),
	}

	seed, err := strconv.ParseInt(getEnv("JUMP61_SEED", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("JUMP61_SEED: %w", err))
	}
	cfg.Seed = seed

	if cfg.Red, err = game.ParseKind(getEnv("JUMP61_RED", "human")); err != nil {
		errs = append(errs, fmt.Errorf("JUMP61_RED: %w", err))
	}
	if cfg.Blue, err = game.ParseKind(getEnv("JUMP61_BLUE", "ai")); err != nil {
		errs = append(errs, fmt.Errorf("JUMP61_BLUE: %w", err))
	}
	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("JUMP61_LOG_LEVEL", "info")); err != nil {
		errs = append(errs, fmt.Errorf("JUMP61_LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that depend on more than one setting.
func (c *Config) Validate() error {
	if c.Size < board.MinSize || c.Size > game.MaxSize {
		return fmt.Errorf("size %d out of range %d..%d", c.Size, board.MinSize, game.MaxSize)
	}
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Games > 1 && (c.Red == game.Human || c.Blue == game.Human) {
		return errors.New("only AI players can play more than one game")
	}
	return nil
}

// GameSeed returns the seed for the i-th game. A zero Seed means a
// time-based one.
func (c *Config) GameSeed(i int) int64 {
	if c.Seed == 0 {
		return time.Now().UnixNano() + int64(i)
	}
	return c.Seed + int64(i)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
