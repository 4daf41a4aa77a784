package relay

import (
	"fmt"
	"io"
	"time"

	"github.com/devconsole/devcon/internal/logging"
)

const (
	// DefaultPollTimeout bounds each receive wait so the cancellation
	// flag is observed within tens of milliseconds.
	DefaultPollTimeout = 50 * time.Millisecond

	// DefaultChunkSize is the per-iteration read size.
	DefaultChunkSize = 64
)

// Canceler is the cancellation signal polled by streaming loops.
// Once it reports true it stays true for the current command invocation.
type Canceler interface {
	Interrupted() bool
}

// Session streams live log output to a console until cancelled.
//
// It registers itself as a broker sink, optionally overrides the
// process-wide verbosity for its lifetime, and guarantees that on every
// exit path the sink is unregistered before the buffer is released and
// the prior verbosity is restored last.
type Session struct {
	Broker      *logging.Broker
	Capacity    int
	PollTimeout time.Duration
	ChunkSize   int
}

// NewSession creates a relay session with default buffer and polling
// parameters against the given broker.
func NewSession(broker *logging.Broker) *Session {
	return &Session{
		Broker:      broker,
		Capacity:    DefaultCapacity,
		PollTimeout: DefaultPollTimeout,
		ChunkSize:   DefaultChunkSize,
	}
}

// Run relays log records to out until cancel reports an interrupt.
//
// If levelArg is non-empty it must be one of the six accepted verbosity
// tokens; an unrecognized token prints the usage help and terminates
// before any resource is acquired, leaving the verbosity untouched.
func (s *Session) Run(out io.Writer, cancel Canceler, levelArg string) {
	previous := s.Broker.Level()
	restoreOwed := false

	if levelArg != "" {
		level, ok := logging.ParseLevel(levelArg)
		if !ok {
			printLevelUsage(out)
			return
		}
		s.Broker.SetLevel(level)
		restoreOwed = true
	}

	ring := New(s.Capacity)
	sinkID := s.Broker.AddSink(func(p []byte) {
		// Runs on the emitting goroutine: non-blocking, lossy on overflow.
		ring.TrySend(p)
	})

	fmt.Fprintf(out, "Current log level: %s\r\n", s.Broker.Level())
	fmt.Fprintf(out, "Use 'log ?' to list available log levels\r\n")
	fmt.Fprintf(out, "Press CTRL+C to stop...\r\n")

	chunk := make([]byte, s.ChunkSize)
	for !cancel.Interrupted() {
		n := ring.Receive(chunk, s.PollTimeout)
		if n > 0 {
			out.Write(chunk[:n])
		}
	}

	// Unregister before releasing the buffer so no sink writes into a
	// closed ring; restore the level only after consuming has stopped.
	s.Broker.RemoveSink(sinkID)
	ring.Close()
	if restoreOwed {
		// A settings reload racing this restore is last-writer-wins.
		s.Broker.SetLevel(previous)
	}
}

// printLevelUsage lists the accepted verbosity tokens, one per line.
func printLevelUsage(out io.Writer) {
	fmt.Fprintf(out, "log - start relaying using the current level from the system settings\r\n")
	fmt.Fprintf(out, "log error - only critical errors and other important messages\r\n")
	fmt.Fprintf(out, "log warn - non-critical errors and warnings including log error\r\n")
	fmt.Fprintf(out, "log info - non-critical information including log warn\r\n")
	fmt.Fprintf(out, "log default - the default system log level (equivalent to log info)\r\n")
	fmt.Fprintf(out, "log debug - debug information including log info (may impact performance)\r\n")
	fmt.Fprintf(out, "log trace - system traces including log debug (may impact performance)\r\n")
}
