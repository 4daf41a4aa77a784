// Package logging is the process-wide log subsystem: a single current
// verbosity level plus a set of registered sinks that receive a copy of
// every emitted record.
//
// Sink callbacks run synchronously on the emitting goroutine and must not
// block; anything that needs buffering does it on its own side (see
// internal/relay).
package logging

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Sink receives the raw bytes of one emitted log record.
// It must complete in bounded, short time and must never block.
type Sink func(p []byte)

// SinkID is the handle returned by AddSink, used to unregister.
type SinkID int

// Broker owns the current verbosity and the sink set.
//
// The level cell has no atomicity guarantee against concurrent external
// writers beyond last-writer-wins; a settings reload racing a relay
// session is documented behavior, not a bug.
type Broker struct {
	level atomic.Int32
	start time.Time

	mu     sync.Mutex
	sinks  map[SinkID]Sink
	nextID SinkID
}

// NewBroker creates a broker with the given initial verbosity.
func NewBroker(initial Level) *Broker {
	b := &Broker{
		start: time.Now(),
		sinks: make(map[SinkID]Sink),
	}
	b.level.Store(int32(initial))
	return b
}

// Level returns the current verbosity.
func (b *Broker) Level() Level {
	return Level(b.level.Load())
}

// SetLevel overwrites the current verbosity. Last writer wins.
func (b *Broker) SetLevel(level Level) {
	b.level.Store(int32(level))
}

// AddSink registers a sink and returns its handle.
func (b *Broker) AddSink(sink Sink) SinkID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.sinks[id] = sink
	return id
}

// RemoveSink unregisters a sink. Removing an unknown handle is a no-op.
func (b *Broker) RemoveSink(id SinkID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sinks, id)
}

// SinkCount returns the number of registered sinks.
func (b *Broker) SinkCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sinks)
}

// Emit formats one record and hands it to every registered sink if the
// record's severity passes the current level. Record format:
//
//	<ms-since-start> [<L>][<tag>] <message>\r\n
func (b *Broker) Emit(level Level, tag, format string, args ...interface{}) {
	if level > b.Level() {
		return
	}

	line := fmt.Sprintf("%d [%c][%s] %s\r\n",
		time.Since(b.start).Milliseconds(), level.tag(), tag,
		fmt.Sprintf(format, args...))
	record := []byte(line)

	// Snapshot the sink set so callbacks run without holding the lock.
	b.mu.Lock()
	sinks := make([]Sink, 0, len(b.sinks))
	for _, sink := range b.sinks {
		sinks = append(sinks, sink)
	}
	b.mu.Unlock()

	for _, sink := range sinks {
		sink(record)
	}
}

// Tagged returns a logger bound to a component tag.
func (b *Broker) Tagged(tag string) *Logger {
	return &Logger{broker: b, tag: tag}
}

// Logger is a convenience wrapper that emits through a broker with a
// fixed component tag.
type Logger struct {
	broker *Broker
	tag    string
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.broker.Emit(LevelError, l.tag, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.broker.Emit(LevelWarn, l.tag, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.broker.Emit(LevelInfo, l.tag, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.broker.Emit(LevelDebug, l.tag, format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.broker.Emit(LevelTrace, l.tag, format, args...)
}

// defaultBroker is the package-level broker shared by the process.
var defaultBroker = NewBroker(LevelDefault)

// Default returns the process-wide broker.
func Default() *Broker {
	return defaultBroker
}

// SetDefault replaces the process-wide broker. Useful in tests.
func SetDefault(b *Broker) {
	defaultBroker = b
}
