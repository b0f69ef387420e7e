package config

import "os"

type Config struct {
	Audio         AudioConfig               `toml:"audio"`
	Live          LiveConfig                `toml:"live"`
	Minutes       MinutesConfig             `toml:"minutes"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Providers     map[string]ProviderConfig `toml:"providers"`
}

// ProviderConfig holds the API key for a provider.
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

type AudioConfig struct {
	Channels          int `toml:"channels"`
	FramesPerBuffer   int `toml:"frames_per_buffer"`
	ChannelBufferSize int `toml:"channel_buffer_size"`
	ChunkSamples      int `toml:"chunk_samples"`
}

type LiveConfig struct {
	Model         string `toml:"model"`
	Voice         string `toml:"voice"`
	BaseURL       string `toml:"base_url"`
	Path          string `toml:"path"`
	SendQueueSize int    `toml:"send_queue_size"`
}

type MinutesConfig struct {
	Model string `toml:"model"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// GeminiAPIKey resolves the live-session credential: config first, then the
// GEMINI_API_KEY environment variable. Empty means unconfigured.
func (c *Config) GeminiAPIKey() string {
	if p, ok := c.Providers["gemini"]; ok && p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

// MinutesAPIKey resolves the minutes-generation credential: config first,
// then OPENAI_API_KEY.
func (c *Config) MinutesAPIKey() string {
	if p, ok := c.Providers["openai"]; ok && p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}
