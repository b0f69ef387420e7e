package config

import (
	"github.com/calebdw/minuted/internal/capture"
	"github.com/calebdw/minuted/internal/live"
	"github.com/calebdw/minuted/internal/minutes"
	"github.com/calebdw/minuted/internal/session"
)

// SessionConfig assembles the session configuration, resolving the live
// credential. The key may be empty; the session reports that at connect.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Live: live.Config{
			BaseURL:       c.Live.BaseURL,
			Path:          c.Live.Path,
			APIKey:        c.GeminiAPIKey(),
			Model:         c.Live.Model,
			Voice:         c.Live.Voice,
			SendQueueSize: c.Live.SendQueueSize,
		},
		Capture: capture.Config{
			Channels:          c.Audio.Channels,
			FramesPerBuffer:   c.Audio.FramesPerBuffer,
			ChannelBufferSize: c.Audio.ChannelBufferSize,
		},
		ChunkSize: c.Audio.ChunkSamples,
	}
}

// MinutesGeneratorConfig assembles the minutes generator configuration.
func (c *Config) MinutesGeneratorConfig() minutes.Config {
	return minutes.Config{
		APIKey: c.MinutesAPIKey(),
		Model:  c.Minutes.Model,
	}
}
