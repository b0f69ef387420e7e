package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
)

// ErrDeviceAccess marks microphone acquisition failures the user has to fix
// themselves (denied access, no input device). Matched with errors.Is.
var ErrDeviceAccess = errors.New("microphone unavailable")

// Frame is one fixed-size block of mono samples at the device's native rate.
type Frame struct {
	Samples   []float32
	Timestamp time.Time
}

type Config struct {
	Channels          int
	FramesPerBuffer   int
	ChannelBufferSize int
}

func DefaultConfig() Config {
	return Config{
		Channels:          1,
		FramesPerBuffer:   1024,
		ChannelBufferSize: 20,
	}
}

// Recorder yields microphone audio as a stream of frames.
type Recorder interface {
	// Start acquires the device and begins capture. The returned channel
	// carries frames until Stop; frames are dropped, never blocked on, when
	// the consumer falls behind.
	Start() (<-chan Frame, error)

	// SampleRate reports the device rate. Valid after Start.
	SampleRate() int

	// Stop releases the stream and device. Best effort: individual release
	// failures are logged, all steps still run. Safe to call twice.
	Stop() error
}

// PortAudioRecorder implements Recorder on the default input device.
type PortAudioRecorder struct {
	config    Config
	recording atomic.Bool

	mu         sync.Mutex // guards stream and frameCh
	stream     *portaudio.Stream
	frameCh    chan Frame
	sampleRate int
}

func NewRecorder(config Config) *PortAudioRecorder {
	return &PortAudioRecorder{config: config}
}

func NewDefaultRecorder() *PortAudioRecorder { return NewRecorder(DefaultConfig()) }

func (r *PortAudioRecorder) IsRecording() bool {
	return r.recording.Load()
}

func (r *PortAudioRecorder) SampleRate() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sampleRate
}

func (r *PortAudioRecorder) Start() (<-chan Frame, error) {
	if r.recording.Load() {
		return nil, fmt.Errorf("already recording")
	}
	if err := r.validateConfig(); err != nil {
		return nil, err
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio host: %w", err)
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: no default input device: %v", ErrDeviceAccess, err)
	}

	frameCh := make(chan Frame, r.config.ChannelBufferSize)

	var droppedCount int
	var lastDropLog time.Time

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: r.config.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      device.DefaultSampleRate,
		FramesPerBuffer: r.config.FramesPerBuffer,
	}

	// The callback runs on the audio driver's schedule and must return
	// before the next period: copy the block, offer it to the channel,
	// drop on backpressure. No blocking, no I/O.
	stream, err := portaudio.OpenStream(params, func(in []float32) {
		if len(in) == 0 {
			return
		}
		samples := make([]float32, len(in))
		copy(samples, in)

		select {
		case frameCh <- Frame{Samples: samples, Timestamp: time.Now()}:
		default:
			droppedCount++
			if time.Since(lastDropLog) > time.Second {
				log.Printf("Capture: dropped %d frames due to backpressure", droppedCount)
				lastDropLog = time.Now()
				droppedCount = 0
			}
		}
	})
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: open input stream: %v", ErrDeviceAccess, err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: start input stream: %v", ErrDeviceAccess, err)
	}

	r.mu.Lock()
	r.stream = stream
	r.frameCh = frameCh
	r.sampleRate = int(device.DefaultSampleRate)
	r.mu.Unlock()
	r.recording.Store(true)

	log.Printf("Capture: started, device=%q rate=%d buffer=%d",
		device.Name, int(device.DefaultSampleRate), r.config.FramesPerBuffer)
	return frameCh, nil
}

// Stop releases in fixed order: stop the stream, close it, terminate the
// audio host. Each step is attempted even if an earlier one fails.
func (r *PortAudioRecorder) Stop() error {
	if !r.recording.Load() {
		return nil
	}
	r.recording.Store(false)

	r.mu.Lock()
	stream := r.stream
	frameCh := r.frameCh
	r.stream = nil
	r.frameCh = nil
	r.mu.Unlock()

	if stream != nil {
		// Stop blocks until the callback has returned, so the channel can
		// be closed safely afterwards.
		if err := stream.Stop(); err != nil {
			log.Printf("Capture: stop stream: %v", err)
		}
		if err := stream.Close(); err != nil {
			log.Printf("Capture: close stream: %v", err)
		}
	}
	if err := portaudio.Terminate(); err != nil {
		log.Printf("Capture: terminate audio host: %v", err)
	}
	if frameCh != nil {
		close(frameCh)
	}

	log.Printf("Capture: stopped")
	return nil
}

func (r *PortAudioRecorder) validateConfig() error {
	if r.config.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", r.config.Channels)
	}
	if r.config.FramesPerBuffer <= 0 {
		return fmt.Errorf("invalid FramesPerBuffer: %d", r.config.FramesPerBuffer)
	}
	if r.config.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid ChannelBufferSize: %d", r.config.ChannelBufferSize)
	}
	return nil
}
