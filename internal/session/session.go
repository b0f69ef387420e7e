package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/calebdw/minuted/internal/audio"
	"github.com/calebdw/minuted/internal/capture"
	"github.com/calebdw/minuted/internal/live"
	"github.com/calebdw/minuted/internal/transcript"
)

type Status string

const (
	Idle       Status = "idle"
	Connecting Status = "connecting"
	Recording  Status = "recording"
	Paused     Status = "paused"
	Completed  Status = "completed"
	Error      Status = "error"
)

// ErrNoAPIKey is the configuration error raised when connect is attempted
// without a credential. Fatal: surfaced before any resource is acquired.
var ErrNoAPIKey = errors.New("no API key configured (set providers.gemini.api_key or GEMINI_API_KEY)")

// Config holds everything one live session needs.
type Config struct {
	Live      live.Config
	Capture   capture.Config
	ChunkSize int // samples per outgoing chunk; 0 means audio.ChunkSize
}

// RecorderFactory creates the microphone recorder. Replaceable for tests.
type RecorderFactory func(cfg capture.Config) capture.Recorder

// Dialer opens the remote realtime session. Replaceable for tests.
type Dialer func(ctx context.Context, cfg live.Config) (live.Session, error)

type Option func(*Session)

func WithRecorderFactory(f RecorderFactory) Option {
	return func(s *Session) { s.newRecorder = f }
}

func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dial = d }
}

// Session is the one live capture/streaming engagement. It owns the device,
// stream and remote handles exclusively and releases them on every exit
// path. Exactly one Session is live at a time.
type Session struct {
	cfg         Config
	newRecorder RecorderFactory
	dial        Dialer

	merger *transcript.Merger
	acc    *audio.Accumulator

	paused atomic.Bool

	mu       sync.Mutex // guards status, errMsg, volume, handles, cancel
	status   Status
	errMsg   string
	volume   float64
	recorder capture.Recorder
	remote   live.Session
	cancel   context.CancelFunc

	wg sync.WaitGroup
}

func New(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		status: Idle,
		merger: transcript.NewMerger(),
		acc:    audio.NewAccumulator(cfg.ChunkSize),
		newRecorder: func(cfg capture.Config) capture.Recorder {
			return capture.NewRecorder(cfg)
		},
		dial: func(ctx context.Context, cfg live.Config) (live.Session, error) {
			return live.Dial(ctx, cfg)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ErrorMessage is non-empty exactly when status is Error.
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Volume is the RMS of the most recent unpaused capture block.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Transcript returns an ordered snapshot of the live transcript.
func (s *Session) Transcript() []transcript.Item {
	return s.merger.Items()
}

// TranscriptText is the joined non-empty transcript, the input contract for
// minutes generation.
func (s *Session) TranscriptText() string {
	return s.merger.Text()
}

// Connect acquires the microphone, opens the remote session and starts
// forwarding. Only meaningful from Idle, Completed or Error; any failure
// transitions to Error with a human-readable message and releases whatever
// was acquired. No automatic retry: recovery is a fresh Connect call.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case Idle, Completed, Error:
	default:
		status := s.status
		s.mu.Unlock()
		return fmt.Errorf("connect not allowed while %s", status)
	}

	if s.cfg.Live.APIKey == "" {
		s.status = Error
		s.errMsg = ErrNoAPIKey.Error()
		s.mu.Unlock()
		return ErrNoAPIKey
	}

	s.status = Connecting
	s.errMsg = ""
	s.mu.Unlock()

	recorder := s.newRecorder(s.cfg.Capture)
	frames, err := recorder.Start()
	if err != nil {
		msg := fmt.Sprintf("failed to start capture: %v", err)
		if errors.Is(err, capture.ErrDeviceAccess) {
			msg = fmt.Sprintf("microphone access denied or unavailable: %v", err)
		}
		s.fail(msg)
		return fmt.Errorf("start capture: %w", err)
	}

	remote, err := s.dial(ctx, s.cfg.Live)
	if err != nil {
		if stopErr := recorder.Stop(); stopErr != nil {
			log.Printf("Session: release capture after failed connect: %v", stopErr)
		}
		s.fail(fmt.Sprintf("failed to open live session: %v (check network and retry)", err))
		return fmt.Errorf("open live session: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.recorder = recorder
	s.remote = remote
	s.cancel = cancel
	s.paused.Store(false)
	s.acc.Reset()
	s.status = Recording
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(runCtx, frames, remote, recorder.SampleRate())

	log.Printf("Session: recording at %d Hz", recorder.SampleRate())
	return nil
}

// run is the single coordinator for both concurrency sources: capture
// frames and remote events. All forwarding, volume and transcript mutation
// happens here, so the capture callback itself never does network I/O.
func (s *Session) run(ctx context.Context, frames <-chan capture.Frame, remote live.Session, srcRate int) {
	defer s.wg.Done()

	events := remote.Events()

	for {
		select {
		case <-ctx.Done():
			return

		case frame, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			if s.paused.Load() {
				continue
			}
			s.setVolume(audio.RMS(frame.Samples))

			resampled := audio.Resample(frame.Samples, srcRate, audio.TargetRate)
			for _, chunk := range s.acc.Add(resampled) {
				// fire-and-forget; the send queue handles backpressure
				if err := remote.SendAudio(audio.EncodeFrame(chunk)); err != nil {
					log.Printf("Session: send chunk: %v", err)
				}
			}

		case ev, ok := <-events:
			if !ok {
				// event stream ended without a close event; treat as close
				s.finish(Completed, "")
				return
			}
			switch {
			case ev.Err != nil:
				log.Printf("Session: remote error: %v", ev.Err)
				s.finish(Error, fmt.Sprintf("live session error: %v (reconnect to continue)", ev.Err))
				return
			case ev.Closed:
				log.Printf("Session: remote closed")
				s.finish(Completed, "")
				return
			case ev.TurnComplete:
				s.merger.CompleteTurn()
			case ev.Text != "":
				s.merger.AddPartial(transcript.User, ev.Text)
			}
		}
	}
}

// Pause gates forwarding and volume updates. Valid only while Recording;
// anything else is a no-op.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Recording {
		return
	}
	s.paused.Store(true)
	s.status = Paused
	log.Printf("Session: paused")
}

// Resume clears the pause gate. Valid only while Paused.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Paused {
		return
	}
	s.paused.Store(false)
	s.status = Recording
	log.Printf("Session: resumed")
}

// Disconnect releases every owned handle in fixed order, tolerating failure
// of each step. From Recording or Paused the status becomes Completed;
// from any other state the status is left unchanged. Reentrant-safe.
func (s *Session) Disconnect() {
	s.mu.Lock()
	prev := s.status
	remote := s.remote
	recorder := s.recorder
	cancel := s.cancel
	s.remote = nil
	s.recorder = nil
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.teardown(remote, recorder)
	s.wg.Wait()

	s.acc.Reset()
	s.paused.Store(false)

	s.mu.Lock()
	if prev == Recording || prev == Paused {
		s.status = Completed
	}
	s.volume = 0
	s.mu.Unlock()

	if prev == Recording || prev == Paused {
		log.Printf("Session: disconnected")
	}
}

// finish handles a remote-initiated end: teardown first, then the final
// status, so error paths never leave half-released handles behind.
func (s *Session) finish(status Status, errMsg string) {
	s.mu.Lock()
	remote := s.remote
	recorder := s.recorder
	s.remote = nil
	s.recorder = nil
	s.cancel = nil
	s.mu.Unlock()

	s.teardown(remote, recorder)

	s.acc.Reset()
	s.paused.Store(false)

	s.mu.Lock()
	s.status = status
	s.errMsg = errMsg
	s.volume = 0
	s.mu.Unlock()
}

// teardown releases in fixed order: remote session first, then the capture
// stream and device. Failures are logged and swallowed so every later step
// still runs.
func (s *Session) teardown(remote live.Session, recorder capture.Recorder) {
	if remote != nil {
		if err := remote.Close(); err != nil {
			log.Printf("Session: close remote session: %v", err)
		}
	}
	if recorder != nil {
		if err := recorder.Stop(); err != nil {
			log.Printf("Session: stop capture: %v", err)
		}
	}
}

// fail records a connect-phase failure.
func (s *Session) fail(msg string) {
	s.mu.Lock()
	s.status = Error
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Session) setVolume(v float64) {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}
