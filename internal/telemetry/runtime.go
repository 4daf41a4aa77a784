package telemetry

import (
	"runtime"
	"strings"
	"sync"
	"time"
)

// stackDumpSize bounds the goroutine dump parsed per snapshot.
const stackDumpSize = 1 << 20

// RuntimeSource enumerates the host runtime's goroutines as execution
// units and reports heap statistics from the memory allocator.
type RuntimeSource struct {
	start time.Time

	// minHeapFree tracks the low-water mark across snapshots. Guarded
	// because one source may serve several console sessions.
	mu          sync.Mutex
	minHeapFree uint64
}

// NewRuntimeSource creates a source whose uptime counts from now.
func NewRuntimeSource() *RuntimeSource {
	return &RuntimeSource{start: time.Now()}
}

// Snapshot implements Source.
func (s *RuntimeSource) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	heapFree := mem.HeapSys - mem.HeapInuse
	s.mu.Lock()
	if s.minHeapFree == 0 || heapFree < s.minHeapFree {
		s.minHeapFree = heapFree
	}
	minHeapFree := s.minHeapFree
	s.mu.Unlock()

	return Snapshot{
		Records:      s.enumerate(),
		ISRFraction:  mem.GCCPUFraction * 100,
		Uptime:       time.Since(s.start),
		HeapTotal:    mem.HeapSys,
		HeapFree:     heapFree,
		HeapMinFree:  minHeapFree,
		HeapMaxBlock: mem.HeapIdle,
	}
}

// enumerate parses the runtime's full goroutine dump into records.
// Per-goroutine stack and CPU accounting is not exposed by the runtime,
// so those columns report zero.
func (s *RuntimeSource) enumerate() []Record {
	buf := make([]byte, stackDumpSize)
	n := runtime.Stack(buf, true)

	var records []Record
	for _, block := range strings.Split(string(buf[:n]), "\n\n") {
		record, ok := parseGoroutineBlock(block)
		if ok {
			records = append(records, record)
		}
	}
	return records
}

// parseGoroutineBlock reads one dump block of the form:
//
//	goroutine 12 [chan receive, 3 minutes]:
//	main.worker(0xc000010000)
//	        /path/to/file.go:42 +0x1f
func parseGoroutineBlock(block string) (Record, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) == 0 {
		return Record{}, false
	}

	header := lines[0]
	if !strings.HasPrefix(header, "goroutine ") {
		return Record{}, false
	}

	open := strings.IndexByte(header, '[')
	end := strings.IndexByte(header, ']')
	if open < 0 || end < open {
		return Record{}, false
	}

	id := strings.TrimSpace(header[len("goroutine "):open])
	state := header[open+1 : end]
	// Drop wait-duration suffixes like "chan receive, 3 minutes".
	if comma := strings.IndexByte(state, ','); comma >= 0 {
		state = state[:comma]
	}

	name := "?"
	if len(lines) > 1 {
		name = lines[1]
		// Strip the argument list from "pkg.fn(...)".
		if paren := strings.IndexByte(name, '('); paren >= 0 {
			name = name[:paren]
		}
	}

	return Record{
		ID:    id,
		Name:  name,
		State: state,
	}, true
}
