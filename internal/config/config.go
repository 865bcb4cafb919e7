// Package config loads user settings. Later layers win: built-in defaults,
// then <base-dir>/config.yaml, then <base-dir>/.env, then the process
// environment. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/michael-freling/tabletop-clock/internal/clock"
	"github.com/michael-freling/tabletop-clock/internal/store"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	FileName    = "config.yaml"
	EnvFileName = ".env"

	// DefaultBaseDirName is created under the home directory
	DefaultBaseDirName = ".chess-clock"

	DefaultTimerSeconds = 60
)

// Environment variables recognized by Load
const (
	EnvBaseDir      = "CHESS_CLOCK_BASE_DIR"
	EnvMode         = "CHESS_CLOCK_MODE"
	EnvTime         = "CHESS_CLOCK_TIME"
	EnvInc          = "CHESS_CLOCK_INC"
	EnvIncStart     = "CHESS_CLOCK_INC_START"
	EnvGong         = "CHESS_CLOCK_GONG"
	EnvStorage      = "CHESS_CLOCK_STORAGE"
	EnvAlarmCommand = "CHESS_CLOCK_ALARM_COMMAND"
	EnvClickCommand = "CHESS_CLOCK_CLICK_COMMAND"
	EnvBell         = "CHESS_CLOCK_BELL"
	EnvLogLevel     = "CHESS_CLOCK_LOG_LEVEL"
	EnvTimerSeconds = "CHESS_CLOCK_TIMER_SECONDS"
)

// ErrInvalidSetting is returned when a loaded setting cannot be used
var ErrInvalidSetting = errors.New("invalid setting")

// Config is the full set of user settings
type Config struct {
	Mode         clock.Mode   `yaml:"mode"`
	Clock        clock.Config `yaml:",inline"`
	Storage      string       `yaml:"storage"`
	AlarmCommand string       `yaml:"alarmCommand"`
	ClickCommand string       `yaml:"clickCommand"`
	Bell         bool         `yaml:"bell"`
	LogLevel     string       `yaml:"logLevel"`
	TimerSeconds int          `yaml:"timerSeconds"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Mode:         clock.ModeStandard,
		Clock:        clock.DefaultConfig(),
		Storage:      store.BackendFile,
		Bell:         true,
		LogLevel:     zerolog.InfoLevel.String(),
		TimerSeconds: DefaultTimerSeconds,
	}
}

// DefaultBaseDir returns the directory holding settings, logs and saved games
func DefaultBaseDir() string {
	if dir := os.Getenv(EnvBaseDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultBaseDirName
	}
	return filepath.Join(home, DefaultBaseDirName)
}

// Load reads the settings stored under baseDir. Missing files are skipped.
func Load(baseDir string) (Config, error) {
	cfg := Default()

	if err := cfg.loadFile(filepath.Join(baseDir, FileName)); err != nil {
		return Config{}, err
	}

	dotenv, err := readDotenv(filepath.Join(baseDir, EnvFileName))
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv(func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return dotenv[key]
	})

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// applyEnv overrides settings from environment variables. Unparsable numbers
// and booleans are ignored and keep the previous value.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvMode); v != "" {
		c.Mode = clock.Mode(v)
	}
	c.Clock.TotalTimeSeconds = envInt(getenv, EnvTime, c.Clock.TotalTimeSeconds)
	c.Clock.IncrementSeconds = envInt(getenv, EnvInc, c.Clock.IncrementSeconds)
	c.Clock.IncrementStartTurn = envInt(getenv, EnvIncStart, c.Clock.IncrementStartTurn)
	c.Clock.GongSeconds = envInt(getenv, EnvGong, c.Clock.GongSeconds)
	if v := getenv(EnvStorage); v != "" {
		c.Storage = v
	}
	if v := getenv(EnvAlarmCommand); v != "" {
		c.AlarmCommand = v
	}
	if v := getenv(EnvClickCommand); v != "" {
		c.ClickCommand = v
	}
	if v := getenv(EnvBell); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Bell = b
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	c.TimerSeconds = envInt(getenv, EnvTimerSeconds, c.TimerSeconds)
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate rejects settings that cannot start the program
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSetting, clock.ErrInvalidMode, c.Mode)
	}
	if err := c.Clock.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSetting, err)
	}
	switch c.Storage {
	case store.BackendFile, store.BackendBolt:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidSetting, store.ErrUnknownBackend, c.Storage)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidSetting, c.LogLevel)
	}
	if c.TimerSeconds < 0 {
		return fmt.Errorf("%w: timer seconds cannot be negative, got %d", ErrInvalidSetting, c.TimerSeconds)
	}
	return nil
}
