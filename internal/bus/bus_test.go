package bus

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestPathFunctions(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	t.Run("SockPath", func(t *testing.T) {
		path, err := SockPath()
		if err != nil {
			t.Fatalf("SockPath failed: %v", err)
		}
		if !filepath.IsAbs(path) {
			t.Error("SockPath should return absolute path")
		}
		if filepath.Base(path) != SockName {
			t.Errorf("SockPath should end with %s, got %s", SockName, filepath.Base(path))
		}
	})

	t.Run("PidPath", func(t *testing.T) {
		path, err := PidPath()
		if err != nil {
			t.Fatalf("PidPath failed: %v", err)
		}
		if !filepath.IsAbs(path) {
			t.Error("PidPath should return absolute path")
		}
		if filepath.Base(path) != PidName {
			t.Errorf("PidPath should end with %s, got %s", PidName, filepath.Base(path))
		}
	})
}

func TestPidFileLifecycle(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	t.Run("create and remove", func(t *testing.T) {
		if err := CreatePidFile(); err != nil {
			t.Fatalf("CreatePidFile failed: %v", err)
		}

		pidPath, _ := PidPath()
		pidData, err := os.ReadFile(pidPath)
		if err != nil {
			t.Fatalf("failed to read PID file: %v", err)
		}
		if string(pidData) != strconv.Itoa(os.Getpid()) {
			t.Errorf("PID file contains %q, expected current PID", string(pidData))
		}

		if err := RemovePidFile(); err != nil {
			t.Fatalf("RemovePidFile failed: %v", err)
		}
		if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
			t.Error("PID file should not exist after removal")
		}
	})

	t.Run("check with no PID file", func(t *testing.T) {
		if err := CheckExistingDaemon(); err != nil {
			t.Errorf("CheckExistingDaemon should succeed with no PID file: %v", err)
		}
	})

	t.Run("check with live process", func(t *testing.T) {
		if err := CreatePidFile(); err != nil {
			t.Fatalf("CreatePidFile failed: %v", err)
		}
		defer RemovePidFile()

		if err := CheckExistingDaemon(); err == nil {
			t.Error("CheckExistingDaemon should fail while this process holds the PID file")
		}
	})

	t.Run("check with stale PID", func(t *testing.T) {
		pidPath, _ := PidPath()
		if err := os.WriteFile(pidPath, []byte("999999"), 0o600); err != nil {
			t.Fatalf("failed to write stale PID file: %v", err)
		}
		defer os.Remove(pidPath)

		if err := CheckExistingDaemon(); err != nil {
			t.Errorf("CheckExistingDaemon should ignore stale PID: %v", err)
		}
	})

	t.Run("check with garbage PID", func(t *testing.T) {
		pidPath, _ := PidPath()
		if err := os.WriteFile(pidPath, []byte("not-a-pid"), 0o600); err != nil {
			t.Fatalf("failed to write PID file: %v", err)
		}
		defer os.Remove(pidPath)

		if err := CheckExistingDaemon(); err != nil {
			t.Errorf("CheckExistingDaemon should ignore garbage PID file: %v", err)
		}
	})
}

func TestSendCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()

				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil || len(line) == 0 {
					return
				}

				switch line[0] {
				case CmdStatus:
					fmt.Fprint(c, "STATUS status=idle\n")
				case CmdTranscript:
					// multi-line response
					fmt.Fprint(c, "Alice: hello\nBob: hi there\n")
				case CmdQuit:
					fmt.Fprint(c, "OK quitting\n")
				default:
					fmt.Fprintf(c, "ERR unknown=%q\n", line[0])
				}
			}(conn)
		}
	}()

	time.Sleep(10 * time.Millisecond)

	tests := []struct {
		cmd      byte
		expected string
	}{
		{CmdStatus, "STATUS status=idle\n"},
		{CmdTranscript, "Alice: hello\nBob: hi there\n"},
		{CmdQuit, "OK quitting\n"},
		{'x', "ERR unknown='x'\n"},
	}

	for _, tt := range tests {
		resp, err := SendCommand(tt.cmd)
		if err != nil {
			t.Errorf("SendCommand(%c) failed: %v", tt.cmd, err)
			continue
		}
		if resp != tt.expected {
			t.Errorf("command %c: got %q, expected %q", tt.cmd, resp, tt.expected)
		}
	}
}

func TestSendCommand_NoDaemon(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, err := SendCommand(CmdStatus); err == nil {
		t.Error("SendCommand should fail when no daemon is listening")
	}
}

func TestListen_ReplacesStaleSocket(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	ln, err := Listen()
	if err != nil {
		t.Fatalf("first Listen failed: %v", err)
	}
	ln.Close()

	// Socket file left behind by an unclean shutdown must not block a new
	// listener.
	ln2, err := Listen()
	if err != nil {
		t.Fatalf("second Listen failed: %v", err)
	}
	ln2.Close()
}
