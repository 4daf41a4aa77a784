package logging

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink collects emitted records for inspection.
type captureSink struct {
	mu      sync.Mutex
	records []string
}

func (c *captureSink) sink(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, string(p))
}

func (c *captureSink) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.records...)
}

func TestBrokerEmitFiltersByLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		emit    Level
		expects bool
	}{
		{name: "error passes at error", level: LevelError, emit: LevelError, expects: true},
		{name: "warn dropped at error", level: LevelError, emit: LevelWarn, expects: false},
		{name: "debug dropped at info", level: LevelInfo, emit: LevelDebug, expects: false},
		{name: "info passes at debug", level: LevelDebug, emit: LevelInfo, expects: true},
		{name: "trace passes at trace", level: LevelTrace, emit: LevelTrace, expects: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broker := NewBroker(tt.level)
			capture := &captureSink{}
			broker.AddSink(capture.sink)

			broker.Emit(tt.emit, "tag", "message")

			if tt.expects {
				require.Len(t, capture.all(), 1)
			} else {
				assert.Empty(t, capture.all())
			}
		})
	}
}

func TestBrokerRecordFormat(t *testing.T) {
	broker := NewBroker(LevelTrace)
	capture := &captureSink{}
	broker.AddSink(capture.sink)

	broker.Emit(LevelWarn, "storage", "slot %d full", 3)

	records := capture.all()
	require.Len(t, records, 1)
	assert.Contains(t, records[0], "[W][storage] slot 3 full")
	assert.True(t, strings.HasSuffix(records[0], "\r\n"), "records end with CRLF for serial consoles")
}

func TestBrokerRemoveSink(t *testing.T) {
	broker := NewBroker(LevelInfo)
	capture := &captureSink{}

	id := broker.AddSink(capture.sink)
	broker.Emit(LevelInfo, "t", "before")
	broker.RemoveSink(id)
	broker.Emit(LevelInfo, "t", "after")

	records := capture.all()
	require.Len(t, records, 1)
	assert.Contains(t, records[0], "before")
	assert.Zero(t, broker.SinkCount())
}

func TestBrokerRemoveUnknownSinkIsNoop(t *testing.T) {
	broker := NewBroker(LevelInfo)
	broker.RemoveSink(SinkID(42))
	assert.Zero(t, broker.SinkCount())
}

func TestBrokerMultipleSinksReceiveCopies(t *testing.T) {
	broker := NewBroker(LevelInfo)
	first := &captureSink{}
	second := &captureSink{}
	broker.AddSink(first.sink)
	broker.AddSink(second.sink)

	broker.Emit(LevelInfo, "t", "fanout")

	assert.Len(t, first.all(), 1)
	assert.Len(t, second.all(), 1)
}

func TestBrokerSetLevelLastWriterWins(t *testing.T) {
	broker := NewBroker(LevelInfo)
	broker.SetLevel(LevelDebug)
	broker.SetLevel(LevelError)
	assert.Equal(t, LevelError, broker.Level())
}

func TestBrokerConcurrentEmit(t *testing.T) {
	broker := NewBroker(LevelTrace)
	capture := &captureSink{}
	broker.AddSink(capture.sink)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				broker.Emit(LevelInfo, "worker", "w%d m%d", worker, j)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, capture.all(), 400)
}

func TestTaggedLogger(t *testing.T) {
	broker := NewBroker(LevelTrace)
	capture := &captureSink{}
	broker.AddSink(capture.sink)

	log := broker.Tagged("server")
	log.Error("e")
	log.Warn("w")
	log.Info("i")
	log.Debug("d")
	log.Trace("t")

	records := capture.all()
	require.Len(t, records, 5)
	markers := []string{"[E]", "[W]", "[I]", "[D]", "[T]"}
	for i, marker := range markers {
		assert.Contains(t, records[i], marker+"[server]")
	}
}

func TestDefaultBrokerReplaceable(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	replacement := NewBroker(LevelError)
	SetDefault(replacement)
	assert.Same(t, replacement, Default())
}
