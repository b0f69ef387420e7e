package config

import "fmt"

func (c *Config) Validate() error {
	if c.Audio.Channels <= 0 {
		return fmt.Errorf("invalid audio.channels: %d", c.Audio.Channels)
	}
	if c.Audio.FramesPerBuffer <= 0 {
		return fmt.Errorf("invalid audio.frames_per_buffer: %d", c.Audio.FramesPerBuffer)
	}
	if c.Audio.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid audio.channel_buffer_size: %d", c.Audio.ChannelBufferSize)
	}
	if c.Audio.ChunkSamples <= 0 {
		return fmt.Errorf("invalid audio.chunk_samples: %d", c.Audio.ChunkSamples)
	}

	if c.Live.Model == "" {
		return fmt.Errorf("invalid live.model: empty")
	}
	if c.Live.BaseURL == "" {
		return fmt.Errorf("invalid live.base_url: empty")
	}
	if c.Live.SendQueueSize <= 0 {
		return fmt.Errorf("invalid live.send_queue_size: %d", c.Live.SendQueueSize)
	}

	switch c.Notifications.Type {
	case "desktop", "log", "none":
	default:
		return fmt.Errorf("invalid notifications.type: %s (use desktop, log or none)", c.Notifications.Type)
	}

	return nil
}
