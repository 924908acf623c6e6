package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Reader.WPM != nil || cfg.Cues.Enabled != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[reader]
wpm = 250
smart-pacing = true

[cues]
volume = 0.8
dir = "/tmp/cues"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reader.WPM == nil || *cfg.Reader.WPM != 250 {
		t.Fatalf("unexpected wpm %v", cfg.Reader.WPM)
	}
	if cfg.Reader.SmartPacing == nil || !*cfg.Reader.SmartPacing {
		t.Fatalf("expected smart pacing set")
	}
	if cfg.Reader.Muted != nil {
		t.Fatalf("expected muted unset")
	}
	if cfg.Cues.Volume == nil || *cfg.Cues.Volume != 0.8 {
		t.Fatalf("unexpected volume %v", cfg.Cues.Volume)
	}
	if cfg.Cues.Dir == nil || *cfg.Cues.Dir != "/tmp/cues" {
		t.Fatalf("unexpected dir %v", cfg.Cues.Dir)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected level %v", cfg.Log.Level)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[reader\nwpm ="), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := EnsureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reader.WPM == nil || *cfg.Reader.WPM != 100 {
		t.Fatalf("unexpected default wpm %v", cfg.Reader.WPM)
	}
	if cfg.History.Enabled == nil || !*cfg.History.Enabled {
		t.Fatalf("expected history enabled")
	}
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[reader]\nwpm = 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := EnsureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "wpm = 7") {
		t.Fatalf("existing config overwritten: %q", data)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TUIREAD_LOG_LEVEL", "warn")
	t.Setenv("TUIREAD_MUTE", "true")
	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if e.LogLevel != "warn" {
		t.Fatalf("unexpected level %q", e.LogLevel)
	}
	if muted, ok := e.MuteOverride(); !ok || !muted {
		t.Fatalf("expected mute override")
	}
	if e.LogFile != "" {
		t.Fatalf("expected empty log file, got %q", e.LogFile)
	}
}

func TestLoadEnvInvalidBool(t *testing.T) {
	t.Setenv("TUIREAD_MUTE", "maybe")
	if _, err := LoadEnv(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	cases := map[string]string{
		DefaultConfigPath(): "/cfg/tuiread/config.toml",
		DefaultCuesDir():    "/cfg/tuiread/cues",
		DefaultDBPath():     "/data/tuiread/tuiread.db",
		DefaultLogPath():    "/state/tuiread/tuiread.log",
	}
	for got, want := range cases {
		if got != filepath.FromSlash(want) {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}
