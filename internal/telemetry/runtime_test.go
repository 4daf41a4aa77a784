package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoroutineBlock(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  Record
		ok    bool
	}{
		{
			name: "running goroutine",
			block: "goroutine 1 [running]:\n" +
				"main.main()\n" +
				"\t/src/main.go:10 +0x1f",
			want: Record{ID: "1", Name: "main.main", State: "running"},
			ok:   true,
		},
		{
			name: "waiting with duration suffix",
			block: "goroutine 42 [chan receive, 3 minutes]:\n" +
				"internal/poll.runtime_pollWait(0x7f3a, 0x72)\n" +
				"\t/usr/go/src/runtime/netpoll.go:345 +0x85",
			want: Record{ID: "42", Name: "internal/poll.runtime_pollWait", State: "chan receive"},
			ok:   true,
		},
		{
			name:  "header only",
			block: "goroutine 7 [select]:",
			want:  Record{ID: "7", Name: "?", State: "select"},
			ok:    true,
		},
		{
			name:  "not a goroutine header",
			block: "created by main.main\n\t/src/main.go:20 +0x3a",
			ok:    false,
		},
		{
			name:  "missing state brackets",
			block: "goroutine 9:\nmain.run()",
			ok:    false,
		},
		{
			name:  "empty block",
			block: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := parseGoroutineBlock(tt.block)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, record)
			}
		})
	}
}

func TestRuntimeSourceSnapshot(t *testing.T) {
	source := NewRuntimeSource()
	snap := source.Snapshot()

	require.NotEmpty(t, snap.Records, "a live runtime always has goroutines")
	for _, record := range snap.Records {
		assert.NotEmpty(t, record.ID)
		assert.NotEmpty(t, record.State)
	}

	assert.Positive(t, snap.HeapTotal)
	assert.LessOrEqual(t, snap.HeapFree, snap.HeapTotal)
	assert.GreaterOrEqual(t, snap.Uptime, time.Duration(0))
}

func TestRuntimeSourceTracksHeapLowWaterMark(t *testing.T) {
	source := NewRuntimeSource()

	first := source.Snapshot()
	second := source.Snapshot()

	assert.Positive(t, first.HeapMinFree)
	assert.LessOrEqual(t, second.HeapMinFree, first.HeapMinFree,
		"the low-water mark never rises")
	assert.LessOrEqual(t, second.HeapMinFree, second.HeapFree)
}
