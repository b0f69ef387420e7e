package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/calebdw/minuted/internal/audio"
	"github.com/calebdw/minuted/internal/capture"
	"github.com/calebdw/minuted/internal/live"
)

// MockRecorder implements capture.Recorder for tests. Frames are pushed by
// the test via PushFrame after Start.
type MockRecorder struct {
	Rate       int
	StartError error

	mu        sync.Mutex
	frameCh   chan capture.Frame
	recording atomic.Bool
	stopCount int
}

func NewMockRecorder(rate int) *MockRecorder {
	if rate <= 0 {
		rate = 48000
	}
	return &MockRecorder{Rate: rate}
}

func (m *MockRecorder) Start() (<-chan capture.Frame, error) {
	if m.StartError != nil {
		return nil, m.StartError
	}
	m.mu.Lock()
	m.frameCh = make(chan capture.Frame, 64)
	ch := m.frameCh
	m.mu.Unlock()
	m.recording.Store(true)
	return ch, nil
}

func (m *MockRecorder) SampleRate() int { return m.Rate }

func (m *MockRecorder) Stop() error {
	m.recording.Store(false)

	m.mu.Lock()
	m.stopCount++
	if m.frameCh != nil {
		close(m.frameCh)
		m.frameCh = nil
	}
	m.mu.Unlock()
	return nil
}

// PushFrame feeds one capture block to the consumer.
func (m *MockRecorder) PushFrame(samples []float32) {
	m.mu.Lock()
	ch := m.frameCh
	m.mu.Unlock()
	if ch == nil {
		return
	}
	ch <- capture.Frame{Samples: samples, Timestamp: time.Now()}
}

func (m *MockRecorder) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCount
}

// MockLiveSession implements live.Session for tests, recording sent frames
// and letting the test inject inbound events.
type MockLiveSession struct {
	DialError error

	mu         sync.Mutex
	sent       []audio.Blob
	eventsCh   chan live.Event
	closed     bool
	closeCount int
}

func NewMockLiveSession() *MockLiveSession {
	return &MockLiveSession{eventsCh: make(chan live.Event, 64)}
}

func (m *MockLiveSession) SendAudio(blob audio.Blob) error {
	m.mu.Lock()
	m.sent = append(m.sent, blob)
	m.mu.Unlock()
	return nil
}

func (m *MockLiveSession) Events() <-chan live.Event { return m.eventsCh }

func (m *MockLiveSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCount++
	if !m.closed {
		m.closed = true
		close(m.eventsCh)
	}
	return nil
}

// Emit injects one inbound event.
func (m *MockLiveSession) Emit(ev live.Event) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	m.eventsCh <- ev
}

// Sent returns a snapshot of the frames sent so far.
func (m *MockLiveSession) Sent() []audio.Blob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audio.Blob, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockLiveSession) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount
}

// Dialer returns a live dialer handing out this mock, or DialError.
func (m *MockLiveSession) Dialer() func(ctx context.Context, cfg live.Config) (live.Session, error) {
	return func(ctx context.Context, cfg live.Config) (live.Session, error) {
		if m.DialError != nil {
			return nil, m.DialError
		}
		return m, nil
	}
}

// RecorderFactory returns a capture factory handing out the given mock.
func RecorderFactory(mock *MockRecorder) func(cfg capture.Config) capture.Recorder {
	return func(cfg capture.Config) capture.Recorder { return mock }
}

// WaitForCondition polls until the condition holds or the timeout elapses.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}
