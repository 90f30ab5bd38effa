package aqua

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultTickRate is the length of one scheduler tick: 20 ticks per second.
const DefaultTickRate = 50 * time.Millisecond

// Config holds the settings of a plugin. Values are read from a YAML file and
// can be overridden by AQUA_* environment variables.
type Config struct {
	// TickRate is the length of one scheduler tick.
	TickRate time.Duration `yaml:"tick_rate" env:"AQUA_TICK_RATE"`

	// AsyncWorkers bounds how many asynchronous tasks run at the same time.
	AsyncWorkers int `yaml:"async_workers" env:"AQUA_ASYNC_WORKERS"`

	// MainWorld names the world whose transactions run synchronous tasks.
	MainWorld string `yaml:"main_world" env:"AQUA_MAIN_WORLD"`

	// PlayerStore is the directory of the offline player database.
	// An empty path keeps offline players in memory only.
	PlayerStore string `yaml:"player_store" env:"AQUA_PLAYER_STORE"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"AQUA_LOG_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickRate:     DefaultTickRate,
		AsyncWorkers: runtime.GOMAXPROCS(0),
		MainWorld:    "overworld",
		LogLevel:     "info",
	}
}

// LoadConfig loads a Config from a YAML file, then applies environment
// overrides. If the file doesn't exist, the defaults are used.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return conf, fmt.Errorf("aqua: reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &conf); err != nil {
			return conf, fmt.Errorf("aqua: parsing config %s: %w", path, err)
		}
	}

	if err := env.Parse(&conf); err != nil {
		return conf, fmt.Errorf("aqua: parse env: %w", err)
	}
	return conf, nil
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
