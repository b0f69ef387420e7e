package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// Notifier surfaces session lifecycle events to the user.
type Notifier interface {
	SessionStarted()
	SessionPaused()
	SessionCompleted()
	MinutesReady(title string)
	Error(msg string)
}

// New returns the notifier for the configured type. Unknown types fall back
// to the log notifier.
func New(kind string, enabled bool) Notifier {
	if !enabled || kind == "none" {
		return Nop{}
	}
	if kind == "desktop" {
		return Desktop{}
	}
	return Log{}
}

// Desktop shells out to notify-send.
type Desktop struct{}

func (Desktop) SessionStarted()   { send("Minuted: recording started", false) }
func (Desktop) SessionPaused()    { send("Minuted: recording paused", false) }
func (Desktop) SessionCompleted() { send("Minuted: session completed", false) }

func (Desktop) MinutesReady(title string) {
	send(fmt.Sprintf("Minuted: minutes ready: %s", title), false)
}

func (Desktop) Error(msg string) { send("Minuted: "+msg, true) }

func send(msg string, critical bool) {
	args := []string{"-a", "Minuted"}
	if critical {
		args = append(args, "-u", "critical")
	}
	args = append(args, msg)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		log.Printf("Notify: failed to send notification: %v", err)
	}
}

// Log writes notifications to the daemon log.
type Log struct{}

func (Log) SessionStarted()           { log.Printf("Notify: recording started") }
func (Log) SessionPaused()            { log.Printf("Notify: recording paused") }
func (Log) SessionCompleted()         { log.Printf("Notify: session completed") }
func (Log) MinutesReady(title string) { log.Printf("Notify: minutes ready: %s", title) }
func (Log) Error(msg string)          { log.Printf("Notify: error: %s", msg) }

// Nop drops everything. Used when notifications are disabled and in tests.
type Nop struct{}

func (Nop) SessionStarted()     {}
func (Nop) SessionPaused()      {}
func (Nop) SessionCompleted()   {}
func (Nop) MinutesReady(string) {}
func (Nop) Error(string)        {}
