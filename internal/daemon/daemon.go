package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/calebdw/minuted/internal/bus"
	"github.com/calebdw/minuted/internal/config"
	"github.com/calebdw/minuted/internal/minutes"
	"github.com/calebdw/minuted/internal/notify"
	"github.com/calebdw/minuted/internal/session"
)

const Version = "0.1.0"

type generator interface {
	Generate(ctx context.Context, transcriptText string) (*minutes.Minutes, error)
}

type generatorFactory func(cfg minutes.Config) (generator, error)

type Daemon struct {
	mu       sync.Mutex
	cfgMgr   *config.Manager
	notifier notify.Notifier

	ctx    context.Context
	cancel context.CancelFunc

	sess        *session.Session
	sessionOpts []session.Option
	newGen      generatorFactory
}

type Option func(*Daemon)

// WithSessionOptions forwards options to every session the daemon creates.
func WithSessionOptions(opts ...session.Option) Option {
	return func(d *Daemon) { d.sessionOpts = opts }
}

// WithGeneratorFactory replaces the minutes generator constructor.
func WithGeneratorFactory(f generatorFactory) Option {
	return func(d *Daemon) { d.newGen = f }
}

func New(cfgMgr *config.Manager, n notify.Notifier, opts ...Option) *Daemon {
	if n == nil {
		n = notify.Log{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		cfgMgr:   cfgMgr,
		notifier: n,
		ctx:      ctx,
		cancel:   cancel,
		newGen: func(cfg minutes.Config) (generator, error) {
			return minutes.NewGenerator(cfg)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.cfgMgr.StartWatching(d.ctx); err != nil {
		log.Printf("Daemon: config watch disabled: %v", err)
	}
	defer d.cfgMgr.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("Daemon: received signal %v, shutting down", sig)
		d.cancel()
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("Daemon: started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Daemon: shutdown requested")
				d.shutdownSession()
				return nil
			}
			log.Printf("Daemon: accept error: %v", err)
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

// shutdownSession disconnects any live session so the device and socket are
// released before the process exits.
func (d *Daemon) shutdownSession() {
	d.mu.Lock()
	sess := d.sess
	d.mu.Unlock()
	if sess != nil {
		sess.Disconnect()
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Daemon: client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	if len(line) == 0 {
		fmt.Fprint(c, "ERR empty\n")
		return
	}
	cmd := line[0]

	switch cmd {
	case bus.CmdConnect:
		d.connect(c)
	case bus.CmdPause:
		d.pause(c)
	case bus.CmdResume:
		d.resume(c)
	case bus.CmdDisconnect:
		d.disconnect(c)
	case bus.CmdStatus:
		d.writeStatus(c)
	case bus.CmdTranscript:
		d.writeTranscript(c)
	case bus.CmdMinutes:
		d.writeMinutes(c)
	case bus.CmdVersion:
		fmt.Fprintf(c, "STATUS version=%s\n", Version)
	case bus.CmdQuit:
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()
	default:
		log.Printf("Daemon: unknown command: %c", cmd)
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}

func (d *Daemon) connect(c net.Conn) {
	d.mu.Lock()
	if d.sess != nil {
		switch d.sess.Status() {
		case session.Connecting, session.Recording, session.Paused:
			d.mu.Unlock()
			fmt.Fprint(c, "ERR already_recording\n")
			return
		}
	}

	cfg := d.cfgMgr.GetConfig()
	sess := session.New(cfg.SessionConfig(), d.sessionOpts...)
	d.sess = sess
	d.mu.Unlock()

	if err := sess.Connect(d.ctx); err != nil {
		log.Printf("Daemon: connect failed: %v", err)
		go d.notifier.Error(sess.ErrorMessage())
		fmt.Fprintf(c, "ERR connect_failed: %v\n", err)
		return
	}

	go d.notifier.SessionStarted()
	fmt.Fprint(c, "OK connected\n")
}

func (d *Daemon) pause(c net.Conn) {
	sess := d.session()
	if sess == nil {
		fmt.Fprint(c, "ERR no_session\n")
		return
	}
	sess.Pause()
	if sess.Status() == session.Paused {
		go d.notifier.SessionPaused()
	}
	fmt.Fprintf(c, "OK status=%s\n", sess.Status())
}

func (d *Daemon) resume(c net.Conn) {
	sess := d.session()
	if sess == nil {
		fmt.Fprint(c, "ERR no_session\n")
		return
	}
	sess.Resume()
	fmt.Fprintf(c, "OK status=%s\n", sess.Status())
}

func (d *Daemon) disconnect(c net.Conn) {
	sess := d.session()
	if sess == nil {
		fmt.Fprint(c, "ERR no_session\n")
		return
	}
	sess.Disconnect()
	go d.notifier.SessionCompleted()
	fmt.Fprintf(c, "OK status=%s\n", sess.Status())
}

func (d *Daemon) writeStatus(c net.Conn) {
	sess := d.session()
	if sess == nil {
		fmt.Fprintf(c, "STATUS status=%s\n", session.Idle)
		return
	}
	status := sess.Status()
	if status == session.Error {
		fmt.Fprintf(c, "STATUS status=%s error=%q\n", status, sess.ErrorMessage())
		return
	}
	fmt.Fprintf(c, "STATUS status=%s volume=%.3f\n", status, sess.Volume())
}

func (d *Daemon) writeTranscript(c net.Conn) {
	sess := d.session()
	if sess == nil {
		fmt.Fprint(c, "ERR no_session\n")
		return
	}
	items := sess.Transcript()
	if len(items) == 0 {
		fmt.Fprint(c, "(no transcript yet)\n")
		return
	}
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		marker := ""
		if item.Partial {
			marker = " ..."
		}
		fmt.Fprintf(c, "[%s] %s: %s%s\n", item.CreatedAt.Format("15:04:05"), item.Speaker, text, marker)
	}
}

func (d *Daemon) writeMinutes(c net.Conn) {
	sess := d.session()
	if sess == nil {
		fmt.Fprint(c, "ERR no_session\n")
		return
	}

	text := sess.TranscriptText()
	if text == "" {
		fmt.Fprint(c, "ERR empty_transcript\n")
		return
	}

	cfg := d.cfgMgr.GetConfig()
	gen, err := d.newGen(cfg.MinutesGeneratorConfig())
	if err != nil {
		fmt.Fprintf(c, "ERR generator: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, 2*time.Minute)
	defer cancel()

	m, err := gen.Generate(ctx, text)
	if err != nil {
		log.Printf("Daemon: minutes generation failed: %v", err)
		go d.notifier.Error(fmt.Sprintf("minutes generation failed: %v", err))
		fmt.Fprintf(c, "ERR generate: %v\n", err)
		return
	}

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		fmt.Fprintf(c, "ERR encode: %v\n", err)
		return
	}

	go d.notifier.MinutesReady(m.Title)
	fmt.Fprintf(c, "%s\n", out)
}

func (d *Daemon) session() *session.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sess
}
