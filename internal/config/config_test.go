package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero channels", func(c *Config) { c.Audio.Channels = 0 }, "audio.channels"},
		{"zero frames", func(c *Config) { c.Audio.FramesPerBuffer = -1 }, "audio.frames_per_buffer"},
		{"zero chunk", func(c *Config) { c.Audio.ChunkSamples = 0 }, "audio.chunk_samples"},
		{"empty model", func(c *Config) { c.Live.Model = "" }, "live.model"},
		{"empty base url", func(c *Config) { c.Live.BaseURL = "" }, "live.base_url"},
		{"bad notifications", func(c *Config) { c.Notifications.Type = "carrier-pigeon" }, "notifications.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoadFrom_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[providers.gemini]
api_key = "key-from-file"

[live]
voice = "Kore"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Live.Voice != "Kore" {
		t.Errorf("voice = %q, want Kore", cfg.Live.Voice)
	}
	if cfg.Live.Model != DefaultLiveModel {
		t.Errorf("model = %q, want default", cfg.Live.Model)
	}
	if cfg.Audio.ChunkSamples != 2048 {
		t.Errorf("chunk_samples = %d, want 2048", cfg.Audio.ChunkSamples)
	}
	if cfg.GeminiAPIKey() != "key-from-file" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey())
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Providers["gemini"] = ProviderConfig{APIKey: "secret"}
	cfg.Live.Voice = "Aoede"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Live.Voice != "Aoede" {
		t.Errorf("voice = %q, want Aoede", loaded.Live.Voice)
	}
	if loaded.Providers["gemini"].APIKey != "secret" {
		t.Errorf("api key = %q", loaded.Providers["gemini"].APIKey)
	}
}

func TestGeminiAPIKey_EnvFallback(t *testing.T) {
	cfg := Default()
	t.Setenv("GEMINI_API_KEY", "env-key")
	if got := cfg.GeminiAPIKey(); got != "env-key" {
		t.Errorf("GeminiAPIKey = %q, want env-key", got)
	}

	cfg.Providers["gemini"] = ProviderConfig{APIKey: "file-key"}
	if got := cfg.GeminiAPIKey(); got != "file-key" {
		t.Errorf("GeminiAPIKey = %q, want file-key (config wins)", got)
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := Default()
	cfg.Providers["gemini"] = ProviderConfig{APIKey: "k"}

	sc := cfg.SessionConfig()
	if sc.Live.APIKey != "k" {
		t.Errorf("live api key = %q", sc.Live.APIKey)
	}
	if sc.Live.Model != DefaultLiveModel {
		t.Errorf("live model = %q", sc.Live.Model)
	}
	if sc.ChunkSize != 2048 {
		t.Errorf("chunk size = %d", sc.ChunkSize)
	}
	if sc.Capture.Channels != 1 {
		t.Errorf("capture channels = %d", sc.Capture.Channels)
	}
}
