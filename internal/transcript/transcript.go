package transcript

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a transcript item.
type Speaker string

const (
	// User is the local microphone speaker.
	User Speaker = "user"
	// Model is the remote peer. The protocol can deliver model-side text but
	// this deployment discards it at the session boundary; the role is kept
	// so the transcript shape doesn't change if that ever flips.
	Model Speaker = "model"
)

// Item is one transcript entry. Immutable once finalized; while Partial is
// true the text of the trailing item may still be rewritten by the merger.
type Item struct {
	ID        string    `json:"id"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Partial   bool      `json:"partial"`
}

// Merger folds streamed partial-text events and turn-completion signals into
// an ordered transcript. Consecutive partials for one open turn collapse
// into a single mutable trailing item; turn completion freezes it.
//
// Safe for concurrent use: the session run loop writes, status readers read.
type Merger struct {
	mu      sync.Mutex
	items   []Item
	pending strings.Builder // text accumulated for the in-progress turn
}

func NewMerger() *Merger {
	return &Merger{}
}

// AddPartial ingests one incremental text fragment for the given speaker.
// The fragment extends the pending turn; the trailing partial item (created
// on first fragment) is overwritten with the full accumulated text.
func (m *Merger) AddPartial(speaker Speaker, text string) {
	if text == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending.WriteString(text)

	if n := len(m.items); n > 0 && m.items[n-1].Partial && m.items[n-1].Speaker == speaker {
		m.items[n-1].Text = m.pending.String()
		return
	}

	m.items = append(m.items, Item{
		ID:        uuid.NewString(),
		Speaker:   speaker,
		Text:      m.pending.String(),
		CreatedAt: time.Now(),
		Partial:   true,
	})
}

// CompleteTurn finalizes every partial item and resets the pending turn.
// Idempotent: a no-op when nothing is partial.
func (m *Merger) CompleteTurn() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		m.items[i].Partial = false
	}
	m.pending.Reset()
}

// Items returns a snapshot of the transcript in order.
func (m *Merger) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Text joins the non-empty items into one block, one line per item. This is
// the snapshot handed to minutes generation.
func (m *Merger) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	for _, it := range m.items {
		trimmed := strings.TrimSpace(it.Text)
		if trimmed == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(trimmed)
	}
	return b.String()
}

// Reset clears the transcript and pending turn.
func (m *Merger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.pending.Reset()
}
