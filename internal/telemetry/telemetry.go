// Package telemetry defines the snapshot source the live monitor pulls
// from: an on-demand enumeration of execution units plus aggregate
// memory and scheduler counters.
package telemetry

import "time"

// Record describes one live execution unit at snapshot time.
type Record struct {
	ID           string
	Name         string
	State        string
	Priority     int
	StackBase    uint64
	StackSize    uint64
	StackMinFree uint64
	HeapUsed     uint64
	CPUFraction  float64
}

// Snapshot is an immutable point-in-time capture. Produced fresh each
// refresh cycle and discarded after rendering.
type Snapshot struct {
	Records []Record

	// ISRFraction is the percentage of time spent outside normal
	// execution units (GC and scheduler overhead in the host runtime).
	ISRFraction float64

	Uptime time.Duration

	HeapTotal    uint64
	HeapFree     uint64
	HeapMinFree  uint64
	HeapMaxBlock uint64
}

// Source produces snapshots on demand. Assumed cheap enough to call
// every refresh cycle; there is no error return, an unavailable source
// yields an empty snapshot.
type Source interface {
	Snapshot() Snapshot
}
