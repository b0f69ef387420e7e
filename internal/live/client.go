package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/calebdw/minuted/internal/audio"
)

// personaInstruction pins the remote peer to silence. The protocol requires
// a response modality even though every response is discarded, so the model
// is told to produce nothing worth keeping.
const personaInstruction = "You are a silent transcription assistant. " +
	"Never speak, never answer, never comment. Remain completely silent " +
	"for the entire session."

// Config holds the connection settings for one realtime session.
type Config struct {
	BaseURL string // e.g. wss://generativelanguage.googleapis.com
	Path    string // e.g. /ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent
	APIKey  string
	Model   string
	Voice   string

	// SendQueueSize bounds the outbound frame queue. Sends never block;
	// frames are dropped when the queue is full.
	SendQueueSize int
}

// Event is one inbound session event. Exactly one field group is set:
// Text/TurnComplete for transcription progress, Err for a session error,
// Closed for a remote close.
type Event struct {
	Text         string
	TurnComplete bool
	Err          error
	Closed       bool
}

// Session is a bidirectional realtime transcription session.
type Session interface {
	// SendAudio queues one encoded frame for delivery. It never blocks; a
	// full queue drops the frame. Fire-and-forget: delivery is not awaited.
	SendAudio(blob audio.Blob) error

	// Events returns the inbound event stream. Closed when the session ends.
	Events() <-chan Event

	// Close tears the session down. Safe to call more than once.
	Close() error
}

// Client implements Session over a websocket.
type Client struct {
	conn     *websocket.Conn
	sendCh   chan audio.Blob
	eventsCh chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool

	lastDropLog time.Time
}

// Dial opens the websocket, sends the session setup message, and starts the
// reader and writer loops.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	wsURL, err := buildURL(cfg)
	if err != nil {
		return nil, fmt.Errorf("build websocket url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	if err := conn.WriteJSON(newSetupMessage(cfg)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send setup: %w", err)
	}

	queueSize := cfg.SendQueueSize
	if queueSize <= 0 {
		queueSize = 32
	}

	clientCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:     conn,
		sendCh:   make(chan audio.Blob, queueSize),
		eventsCh: make(chan Event, 64),
		ctx:      clientCtx,
		cancel:   cancel,
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()

	log.Printf("Live: connected, model=%s", cfg.Model)
	return c, nil
}

func buildURL(cfg Config) (string, error) {
	u, err := url.Parse(cfg.BaseURL + cfg.Path)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("key", cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SendAudio queues one frame. A full queue drops the frame and logs at most
// once per second.
func (c *Client) SendAudio(blob audio.Blob) error {
	select {
	case <-c.ctx.Done():
		return fmt.Errorf("session closed")
	default:
	}

	select {
	case c.sendCh <- blob:
		return nil
	default:
		c.mu.Lock()
		if time.Since(c.lastDropLog) > time.Second {
			log.Printf("Live: send queue full, dropping audio frame")
			c.lastDropLog = time.Now()
		}
		c.mu.Unlock()
		return nil
	}
}

// Events returns the inbound event channel.
func (c *Client) Events() <-chan Event {
	return c.eventsCh
}

// writeLoop drains the send queue onto the wire. Write failures end the
// session; the read side reports the cause.
func (c *Client) writeLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case blob := <-c.sendCh:
			msg := mediaMessage{Media: blob}
			if err := c.conn.WriteJSON(msg); err != nil {
				select {
				case <-c.ctx.Done():
				default:
					log.Printf("Live: write error: %v", err)
				}
				return
			}
		}
	}
}

// readLoop parses inbound messages into events until the connection ends.
func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.eventsCh)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
				// local close, not an event
			default:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.emit(Event{Closed: true})
				} else {
					c.emit(Event{Err: fmt.Errorf("websocket read: %w", err)})
				}
			}
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Live: parse error: %v", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg serverMessage) {
	sc := msg.ServerContent
	if sc == nil {
		return
	}

	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		c.emit(Event{Text: sc.InputTranscription.Text})
	}

	// Response-side output is intentionally discarded: outputTranscription
	// and any model audio never leave this function.

	if sc.TurnComplete {
		c.emit(Event{TurnComplete: true})
	}
}

func (c *Client) emit(ev Event) {
	select {
	case c.eventsCh <- ev:
	default:
		log.Printf("Live: event channel full, dropping event")
	}
}

// Close tears down the session. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()

	// close frame is best effort; the peer may already be gone
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()

	c.wg.Wait()
	log.Printf("Live: closed")
	return err
}
