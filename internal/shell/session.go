// Package shell implements the interactive diagnostics console: one
// session per transport connection, a registry of commands, and the
// dispatch loop that ties them together.
package shell

import (
	"bufio"
	"io"
	"sync/atomic"
)

// Control bytes understood by the session input side.
const (
	keyETX       = 0x03 // Ctrl+C
	keyEOT       = 0x04 // Ctrl+D
	keyBackspace = 0x08
	keyDelete    = 0x7f
	keyCR        = '\r'
	keyLF        = '\n'
)

// Session is one interactive command invocation context: an output sink
// plus a cancellation signal. The signal is set by the input side on
// Ctrl+C and polled, never waited on, by long-running commands.
type Session struct {
	out         io.Writer
	interrupted atomic.Bool

	// keys carries input bytes from the pump goroutine. Closed when the
	// transport reaches EOF.
	keys chan byte
}

// NewSession starts a session over the given transport. A background
// goroutine pumps input bytes until in reports an error.
func NewSession(in io.Reader, out io.Writer) *Session {
	s := &Session{
		out:  out,
		keys: make(chan byte, 64),
	}
	go s.pump(in)
	return s
}

func (s *Session) pump(in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			close(s.keys)
			return
		}
		s.keys <- b
	}
}

// Write sends bytes to the session output. Implements io.Writer so
// commands treat the session as their output sink.
func (s *Session) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// Interrupted reports whether the current command invocation has been
// cancelled. Once true it stays true until the next prompt.
func (s *Session) Interrupted() bool {
	return s.interrupted.Load()
}

// Interrupt sets the cancellation signal.
func (s *Session) Interrupt() {
	s.interrupted.Store(true)
}

// resetInterrupt clears the signal between command invocations.
func (s *Session) resetInterrupt() {
	s.interrupted.Store(false)
}
