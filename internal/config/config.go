// Package config provides configuration management for ChronoZen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xvierd/chronozen/internal/domain"
)

// Pace advisor providers.
const (
	ProviderGemini    = "gemini"
	ProviderHeuristic = "heuristic"
	ProviderOff       = "off"
)

const (
	defaultDataDir = "~/.chronozen"
	defaultLogFile = "~/.chronozen/chronozen.log"
)

// Config holds all configuration for the ChronoZen application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Pomodoro      PomodoroConfig     `mapstructure:"pomodoro"`
	Pace          PaceConfig         `mapstructure:"pace"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds plain countdown settings.
type TimerConfig struct {
	DefaultPreset string   `mapstructure:"default_preset"`
	Presets       []string `mapstructure:"presets"`
	TickInterval  Duration `mapstructure:"tick_interval"`
}

// PomodoroConfig holds pomodoro timer settings.
type PomodoroConfig struct {
	WorkDuration     Duration `mapstructure:"work_duration"`
	ShortBreak       Duration `mapstructure:"short_break"`
	LongBreak        Duration `mapstructure:"long_break"`
	CyclesBeforeLong int      `mapstructure:"cycles_before_long"`
}

// PaceConfig selects and tunes the pace advisor.
type PaceConfig struct {
	Provider    string   `mapstructure:"provider"`
	Model       string   `mapstructure:"model"`
	APIKey      string   `mapstructure:"api_key"`
	MinInterval Duration `mapstructure:"min_interval"`
	Timeout     Duration `mapstructure:"timeout"`
	CacheSize   int      `mapstructure:"cache_size"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logger settings. The TUI owns stdout, so logs go to a
// file; an empty file disables logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// MetricsConfig holds the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ThemeConfig holds colors and icons for the terminal UI.
type ThemeConfig struct {
	ColorWork           string `mapstructure:"color_work"`
	ColorBreak          string `mapstructure:"color_break"`
	ColorCountdown      string `mapstructure:"color_countdown"`
	ColorPaused         string `mapstructure:"color_paused"`
	ColorTitle          string `mapstructure:"color_title"`
	ColorHelp           string `mapstructure:"color_help"`
	WorkGradientStart   string `mapstructure:"work_gradient_start"`
	WorkGradientEnd     string `mapstructure:"work_gradient_end"`
	BreakGradientStart  string `mapstructure:"break_gradient_start"`
	BreakGradientEnd    string `mapstructure:"break_gradient_end"`
	PausedGradientStart string `mapstructure:"paused_gradient_start"`
	PausedGradientEnd   string `mapstructure:"paused_gradient_end"`
	IconApp             string `mapstructure:"icon_app"`
	IconPaused          string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:           "#7C6FE0",
		ColorBreak:          "#4ECDC4",
		ColorCountdown:      "#F4A261",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorHelp:           "#95A5A6",
		WorkGradientStart:   "#7C6FE0",
		WorkGradientEnd:     "#A78BFA",
		BreakGradientStart:  "#4ECDC4",
		BreakGradientEnd:    "#2ECC71",
		PausedGradientStart: "#6B7280",
		PausedGradientEnd:   "#4B5563",
		IconApp:             "⏳",
		IconPaused:          "⏸",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultPreset: domain.DefaultPreset().Label,
			TickInterval:  Duration(time.Second),
		},
		Pomodoro: PomodoroConfig{
			WorkDuration:     Duration(25 * time.Minute),
			ShortBreak:       Duration(5 * time.Minute),
			LongBreak:        Duration(15 * time.Minute),
			CyclesBeforeLong: 4,
		},
		Pace: PaceConfig{
			Provider:    ProviderHeuristic,
			Model:       "gemini-2.0-flash",
			MinInterval: Duration(5 * time.Second),
			Timeout:     Duration(10 * time.Second),
			CacheSize:   128,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults on first use.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath. Environment variables
// prefixed with CHRONOZEN_ override file values, e.g. CHRONOZEN_PACE_PROVIDER.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if cfg.Pace.APIKey == "" {
		cfg.Pace.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if cfg.Storage.DataDir, err = expandHome(cfg.Storage.DataDir); err != nil {
		return nil, err
	}

	if cfg.Log.File != "" {
		if cfg.Log.File, err = expandHome(cfg.Log.File); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("chronozen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// readFile reads the config file without environment overrides, so that
// writing it back only persists what the file already holds.
func readFile(configPath string) (*viper.Viper, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return v, nil
}

// Setting is a single flattened config key.
type Setting struct {
	Key   string
	Value any
}

// Settings returns the keys stored in the config file at configPath,
// sorted by name. The API key is masked.
func Settings(configPath string) ([]Setting, error) {
	v, err := readFile(configPath)
	if err != nil {
		return nil, err
	}
	keys := v.AllKeys()
	sort.Strings(keys)

	settings := make([]Setting, 0, len(keys))
	for _, k := range keys {
		val := v.Get(k)
		if k == "pace.api_key" && val != "" {
			val = "********"
		}
		settings = append(settings, Setting{Key: k, Value: val})
	}
	return settings, nil
}

// Set stores value under key in the config file at configPath. Unknown
// keys and values that leave the config invalid are rejected and the file
// is not touched.
func Set(configPath, key, value string) error {
	v, err := readFile(configPath)
	if err != nil {
		return err
	}

	key = strings.ToLower(key)
	if !slices.Contains(v.AllKeys(), key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	typed, err := convert(v.Get(key), value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	v.Set(key, typed)

	cfg, err := decode(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return v.WriteConfig()
}

// convert parses value into the type currently held by the key.
func convert(current any, value string) (any, error) {
	switch current.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.Atoi(value)
	case []string, []any:
		if strings.TrimSpace(value) == "" {
			return []string{}, nil
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return value, nil
	}
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath as TOML.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.default_preset", cfg.Timer.DefaultPreset)
	v.Set("timer.presets", cfg.Timer.Presets)
	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("pomodoro.work_duration", cfg.Pomodoro.WorkDuration.String())
	v.Set("pomodoro.short_break", cfg.Pomodoro.ShortBreak.String())
	v.Set("pomodoro.long_break", cfg.Pomodoro.LongBreak.String())
	v.Set("pomodoro.cycles_before_long", cfg.Pomodoro.CyclesBeforeLong)
	v.Set("pace.provider", cfg.Pace.Provider)
	v.Set("pace.model", cfg.Pace.Model)
	v.Set("pace.min_interval", cfg.Pace.MinInterval.String())
	v.Set("pace.timeout", cfg.Pace.Timeout.String())
	v.Set("pace.cache_size", cfg.Pace.CacheSize)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	setTheme(v.Set, cfg.Theme)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".chronozen", "config.toml"), nil
}

// GetDBPath returns the path to the history database.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "chronozen.db")
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.default_preset", d.Timer.DefaultPreset)
	v.SetDefault("timer.presets", []string{})
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval.String())
	v.SetDefault("pomodoro.work_duration", d.Pomodoro.WorkDuration.String())
	v.SetDefault("pomodoro.short_break", d.Pomodoro.ShortBreak.String())
	v.SetDefault("pomodoro.long_break", d.Pomodoro.LongBreak.String())
	v.SetDefault("pomodoro.cycles_before_long", d.Pomodoro.CyclesBeforeLong)
	v.SetDefault("pace.provider", d.Pace.Provider)
	v.SetDefault("pace.model", d.Pace.Model)
	v.SetDefault("pace.api_key", "")
	v.SetDefault("pace.min_interval", d.Pace.MinInterval.String())
	v.SetDefault("pace.timeout", d.Pace.Timeout.String())
	v.SetDefault("pace.cache_size", d.Pace.CacheSize)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("metrics.addr", "")
	setTheme(v.SetDefault, d.Theme)
}

func setTheme(set func(string, any), t ThemeConfig) {
	set("theme.color_work", t.ColorWork)
	set("theme.color_break", t.ColorBreak)
	set("theme.color_countdown", t.ColorCountdown)
	set("theme.color_paused", t.ColorPaused)
	set("theme.color_title", t.ColorTitle)
	set("theme.color_help", t.ColorHelp)
	set("theme.work_gradient_start", t.WorkGradientStart)
	set("theme.work_gradient_end", t.WorkGradientEnd)
	set("theme.break_gradient_start", t.BreakGradientStart)
	set("theme.break_gradient_end", t.BreakGradientEnd)
	set("theme.paused_gradient_start", t.PausedGradientStart)
	set("theme.paused_gradient_end", t.PausedGradientEnd)
	set("theme.icon_app", t.IconApp)
	set("theme.icon_paused", t.IconPaused)
}

// Plan converts the pomodoro settings to a domain plan. Durations are
// truncated to whole seconds.
func (c *Config) Plan() domain.PomodoroPlan {
	return domain.PomodoroPlan{
		WorkSeconds:           int(time.Duration(c.Pomodoro.WorkDuration) / time.Second),
		ShortBreakSeconds:     int(time.Duration(c.Pomodoro.ShortBreak) / time.Second),
		LongBreakSeconds:      int(time.Duration(c.Pomodoro.LongBreak) / time.Second),
		CyclesBeforeLongBreak: c.Pomodoro.CyclesBeforeLong,
	}
}

// Validate reports settings that would prevent the timer from starting.
func (c *Config) Validate() error {
	if err := c.Plan().Validate(); err != nil {
		return err
	}
	switch c.Pace.Provider {
	case ProviderGemini, ProviderHeuristic, ProviderOff:
	default:
		return fmt.Errorf("unknown pace provider %q: use gemini, heuristic or off", c.Pace.Provider)
	}
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", domain.ErrInvalidDuration)
	}
	return nil
}
