package config

const (
	DefaultLiveModel = "models/gemini-2.0-flash-live-001"
	DefaultVoice     = "Puck"
	DefaultBaseURL   = "wss://generativelanguage.googleapis.com"
	DefaultPath      = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	DefaultMinutesModel = "gpt-4o-mini"
)

// Default returns a configuration with every field at its default.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			Channels:          1,
			FramesPerBuffer:   1024,
			ChannelBufferSize: 20,
			ChunkSamples:      2048,
		},
		Live: LiveConfig{
			Model:         DefaultLiveModel,
			Voice:         DefaultVoice,
			BaseURL:       DefaultBaseURL,
			Path:          DefaultPath,
			SendQueueSize: 32,
		},
		Minutes: MinutesConfig{
			Model: DefaultMinutesModel,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// applyDefaults fills zero-valued fields after decoding a user config.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Audio.Channels == 0 {
		c.Audio.Channels = def.Audio.Channels
	}
	if c.Audio.FramesPerBuffer == 0 {
		c.Audio.FramesPerBuffer = def.Audio.FramesPerBuffer
	}
	if c.Audio.ChannelBufferSize == 0 {
		c.Audio.ChannelBufferSize = def.Audio.ChannelBufferSize
	}
	if c.Audio.ChunkSamples == 0 {
		c.Audio.ChunkSamples = def.Audio.ChunkSamples
	}

	if c.Live.Model == "" {
		c.Live.Model = def.Live.Model
	}
	if c.Live.Voice == "" {
		c.Live.Voice = def.Live.Voice
	}
	if c.Live.BaseURL == "" {
		c.Live.BaseURL = def.Live.BaseURL
	}
	if c.Live.Path == "" {
		c.Live.Path = def.Live.Path
	}
	if c.Live.SendQueueSize == 0 {
		c.Live.SendQueueSize = def.Live.SendQueueSize
	}

	if c.Minutes.Model == "" {
		c.Minutes.Model = def.Minutes.Model
	}

	if c.Notifications.Type == "" {
		c.Notifications.Type = def.Notifications.Type
	}

	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
}
