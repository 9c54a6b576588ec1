package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/chronozen/internal/domain"
)

func TestDefaultConfig_Plan(t *testing.T) {
	cfg := DefaultConfig()
	if got, want := cfg.Plan(), domain.DefaultPomodoroPlan(); got != want {
		t.Errorf("Plan() = %+v, want %+v", got, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	if cfg.Timer.DefaultPreset != "5:00" {
		t.Errorf("DefaultPreset = %q, want 5:00", cfg.Timer.DefaultPreset)
	}
	if time.Duration(cfg.Timer.TickInterval) != time.Second {
		t.Errorf("TickInterval = %v, want 1s", cfg.Timer.TickInterval)
	}
	if time.Duration(cfg.Pace.MinInterval) != 5*time.Second {
		t.Errorf("MinInterval = %v, want 5s", cfg.Pace.MinInterval)
	}
	if cfg.Pace.Provider != ProviderHeuristic {
		t.Errorf("Provider = %q, want heuristic", cfg.Pace.Provider)
	}
	if cfg.Plan() != domain.DefaultPomodoroPlan() {
		t.Errorf("Plan() = %+v, want defaults", cfg.Plan())
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".chronozen"); cfg.Storage.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, want)
	}
}

func TestLoadFrom_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[timer]
default_preset = "10:00"
presets = ["45s", "10:00", "50m"]

[pomodoro]
work_duration = "50m"
short_break = "10m"
long_break = "30m"
cycles_before_long = 3

[pace]
provider = "gemini"
api_key = "from-file"

[storage]
data_dir = "/var/lib/chronozen"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.Timer.Presets) != 3 || cfg.Timer.Presets[2] != "50m" {
		t.Errorf("Presets = %v", cfg.Timer.Presets)
	}
	want := domain.PomodoroPlan{WorkSeconds: 3000, ShortBreakSeconds: 600, LongBreakSeconds: 1800, CyclesBeforeLongBreak: 3}
	if cfg.Plan() != want {
		t.Errorf("Plan() = %+v, want %+v", cfg.Plan(), want)
	}
	if cfg.Pace.APIKey != "from-file" {
		t.Errorf("APIKey = %q, want from-file", cfg.Pace.APIKey)
	}
	if cfg.Storage.DataDir != "/var/lib/chronozen" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	// unset keys keep their defaults
	if !cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled = false, want default true")
	}
}

func TestLoadFrom_Environment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CHRONOZEN_PACE_PROVIDER", "off")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Pace.Provider != ProviderOff {
		t.Errorf("Provider = %q, want off", cfg.Pace.Provider)
	}
	if cfg.Pace.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.Pace.APIKey)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Pomodoro.CyclesBeforeLong = 6
	cfg.Metrics.Addr = "127.0.0.1:9090"
	cfg.Storage.DataDir = t.TempDir()

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Pomodoro.CyclesBeforeLong != 6 || loaded.Metrics.Addr != "127.0.0.1:9090" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero work", func(c *Config) { c.Pomodoro.WorkDuration = 0 }, domain.ErrInvalidPlan},
		{"zero cycles", func(c *Config) { c.Pomodoro.CyclesBeforeLong = 0 }, domain.ErrInvalidPlan},
		{"zero tick", func(c *Config) { c.Timer.TickInterval = 0 }, domain.ErrInvalidDuration},
		{"unknown provider", func(c *Config) { c.Pace.Provider = "oracle" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("Duration = %v, want 1m30s", d)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) error = nil")
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %s, want 1m30s", text)
	}
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := Set(path, "pomodoro.cycles_before_long", "6"); err != nil {
		t.Fatalf("Set(cycles) error = %v", err)
	}
	if err := Set(path, "Notifications.Sound", "false"); err != nil {
		t.Fatalf("Set(sound) error = %v", err)
	}
	if err := Set(path, "timer.presets", "10:00, 20:00"); err != nil {
		t.Fatalf("Set(presets) error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Pomodoro.CyclesBeforeLong != 6 {
		t.Errorf("CyclesBeforeLong = %d, want 6", cfg.Pomodoro.CyclesBeforeLong)
	}
	if cfg.Notifications.Sound {
		t.Error("Notifications.Sound = true, want false")
	}
	if len(cfg.Timer.Presets) != 2 || cfg.Timer.Presets[1] != "20:00" {
		t.Errorf("Presets = %v, want [10:00 20:00]", cfg.Timer.Presets)
	}
}

func TestSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"unknown key", "timer.colour", "red", nil},
		{"not a number", "pomodoro.cycles_before_long", "four", nil},
		{"zero work", "pomodoro.work_duration", "0s", domain.ErrInvalidPlan},
		{"bad duration", "pomodoro.short_break", "soon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			err := Set(path, tt.key, tt.value)
			if err == nil {
				t.Fatal("Set() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Set() error = %v, want %v", err, tt.wantErr)
			}

			cfg, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom() error = %v", err)
			}
			if got, want := cfg.Plan(), domain.DefaultPomodoroPlan(); got != want {
				t.Errorf("file changed: Plan() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Set(path, "pace.api_key", "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	settings, err := Settings(path)
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}

	found := map[string]any{}
	for i, s := range settings {
		if i > 0 && settings[i-1].Key > s.Key {
			t.Errorf("settings not sorted: %s before %s", settings[i-1].Key, s.Key)
		}
		found[s.Key] = s.Value
	}
	if found["pace.api_key"] != "********" {
		t.Errorf("pace.api_key = %v, want masked", found["pace.api_key"])
	}
	if found["pomodoro.work_duration"] != "25m0s" {
		t.Errorf("pomodoro.work_duration = %v, want 25m0s", found["pomodoro.work_duration"])
	}
}
