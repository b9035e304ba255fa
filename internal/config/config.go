package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// ErrInvalid marks a config value that parsed but cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config captures everything backdrop reads from config.toml and the environment.
type Config struct {
	AccessKey string
	APIURL    string
	DemoMode  bool

	Category string
	Search   string
	Save     bool

	// Interval is zero in adaptive mode, otherwise the fixed wait.
	Interval    time.Duration
	MaxInterval time.Duration

	ReservedForManual int
	ManualCooldown    time.Duration
	RateLimitPerHour  int

	ImageDir    string
	SavedDir    string
	RequestsLog string

	LogLevel string
	LogFile  string
	Theme    string
}

const (
	defaultConfigPath  = "~/.config/backdrop/config.toml"
	defaultAPIURL      = "https://api.unsplash.com/photos/random"
	defaultCategory    = "random"
	defaultImageDir    = "~/.local/share/backdrop/img"
	defaultRequestsLog = "~/.local/state/backdrop/requests.toml"
	defaultLogFile     = "~/.local/state/backdrop/backdrop.log"
	defaultLogLevel    = "info"
	defaultTheme       = "Nightfox"

	defaultReserved       = 10
	defaultManualCooldown = 5 * time.Second
	defaultRateLimit      = 50

	// IntervalAuto selects the adaptive pacing mode.
	IntervalAuto = "auto"
)

type rawConfig struct {
	AccessKey         string `toml:"access_key"`
	APIURL            string `toml:"api_url"`
	DemoMode          bool   `toml:"demo_mode"`
	Category          string `toml:"category"`
	Search            string `toml:"search"`
	SaveDownloads     bool   `toml:"save_downloads"`
	Interval          string `toml:"interval"`
	MaxInterval       *int   `toml:"max_interval"`
	ReservedForManual *int   `toml:"reserved_for_manual"`
	ManualCooldown    *int   `toml:"manual_cooldown"`
	RateLimitPerHour  *int   `toml:"rate_limit_per_hour"`
	ImageDir          string `toml:"img_dir"`
	SavedDir          string `toml:"saved_dir"`
	RequestsLog       string `toml:"requests_log"`
	LogLevel          string `toml:"log_level"`
	LogFile           string `toml:"log_file"`
	Theme             string `toml:"theme"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	imgDir := mustExpand(defaultImageDir)
	return Config{
		APIURL:            defaultAPIURL,
		Category:          defaultCategory,
		ReservedForManual: defaultReserved,
		ManualCooldown:    defaultManualCooldown,
		RateLimitPerHour:  defaultRateLimit,
		ImageDir:          imgDir,
		SavedDir:          filepath.Join(imgDir, "saved"),
		RequestsLog:       mustExpand(defaultRequestsLog),
		LogLevel:          defaultLogLevel,
		LogFile:           mustExpand(defaultLogFile),
		Theme:             defaultTheme,
	}
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies .env and environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.apply(raw); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	loadDotEnv()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	c.AccessKey = strings.TrimSpace(raw.AccessKey)
	c.DemoMode = raw.DemoMode
	c.Save = raw.SaveDownloads
	c.Search = strings.TrimSpace(raw.Search)

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.Category); v != "" {
		c.Category = v
	}

	interval, err := ParseInterval(raw.Interval)
	if err != nil {
		return err
	}
	c.Interval = interval

	if raw.MaxInterval != nil {
		if *raw.MaxInterval < 0 {
			return fmt.Errorf("%w: max_interval must not be negative", ErrInvalid)
		}
		c.MaxInterval = time.Duration(*raw.MaxInterval) * time.Second
	}
	if raw.ReservedForManual != nil {
		if *raw.ReservedForManual < 0 {
			return fmt.Errorf("%w: reserved_for_manual must not be negative", ErrInvalid)
		}
		c.ReservedForManual = *raw.ReservedForManual
	}
	if raw.ManualCooldown != nil {
		if *raw.ManualCooldown < 0 {
			return fmt.Errorf("%w: manual_cooldown must not be negative", ErrInvalid)
		}
		c.ManualCooldown = time.Duration(*raw.ManualCooldown) * time.Second
	}
	if raw.RateLimitPerHour != nil {
		if *raw.RateLimitPerHour <= 0 {
			return fmt.Errorf("%w: rate_limit_per_hour must be positive", ErrInvalid)
		}
		c.RateLimitPerHour = *raw.RateLimitPerHour
	}

	if v := strings.TrimSpace(raw.ImageDir); v != "" {
		c.ImageDir = mustExpand(v)
		c.SavedDir = filepath.Join(c.ImageDir, "saved")
	}
	if v := strings.TrimSpace(raw.SavedDir); v != "" {
		c.SavedDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.RequestsLog); v != "" {
		c.RequestsLog = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		c.Theme = v
	}
	return nil
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv("UNSPLASH_ACCESS_KEY")); key != "" {
		c.AccessKey = key
	}
	if truthy(os.Getenv("USE_DEMO_MODE")) {
		c.DemoMode = true
	}
	if c.AccessKey == "" {
		c.DemoMode = true
	}
}

// ParseInterval accepts "auto" (or empty) for adaptive pacing, or a number
// of minutes such as "1.5".
func ParseInterval(value string) (time.Duration, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" || trimmed == IntervalAuto {
		return 0, nil
	}
	minutes, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%w: interval %q must be %q or a positive number of minutes", ErrInvalid, value, IntervalAuto)
	}
	return time.Duration(minutes * float64(time.Minute)), nil
}

// Adaptive reports whether the interval follows the request budget.
func (c Config) Adaptive() bool {
	return c.Interval <= 0
}

// EffectiveCooldown is the manual cooldown, never shorter than five seconds.
func (c Config) EffectiveCooldown() time.Duration {
	if c.ManualCooldown < defaultManualCooldown {
		return defaultManualCooldown
	}
	return c.ManualCooldown
}

// DefaultPath returns the unexpanded default config location.
func DefaultPath() string {
	return defaultConfigPath
}

// loadDotEnv reads ./.env without overriding variables already set.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
