package shell

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconsole/devcon/internal/logging"
	"github.com/devconsole/devcon/internal/telemetry"
)

// stubSource serves a fixed telemetry snapshot.
type stubSource struct {
	snap telemetry.Snapshot
}

func (s *stubSource) Snapshot() telemetry.Snapshot {
	return s.snap
}

func newTestBuiltins() (*Builtins, *Registry) {
	b := &Builtins{
		Broker: logging.NewBroker(logging.LevelInfo),
		Source: &stubSource{snap: telemetry.Snapshot{
			HeapTotal:    4096,
			HeapFree:     1024,
			HeapMinFree:  512,
			HeapMaxBlock: 256,
		}},
		Start:   time.Now(),
		Version: "1.2.3",
	}
	reg := NewRegistry()
	b.Register(reg)
	return b, reg
}

// invoke runs one builtin against a throwaway session and returns its
// output.
func invoke(t *testing.T, reg *Registry, name, args string) string {
	t.Helper()

	entry, ok := reg.Lookup(name)
	require.True(t, ok, "command %q must be registered", name)

	var out bytes.Buffer
	session := NewSession(strings.NewReader(""), &out)
	entry.Handler(session, args)
	return out.String()
}

func TestBuiltinsRegistrationOrder(t *testing.T) {
	_, reg := newTestBuiltins()

	want := []string{
		"?", "help", "clear", "cls", "date", "free",
		"l", "log", "neofetch", "top", "uptime", "version",
	}
	require.Equal(t, len(want), reg.Len())
	for i, name := range want {
		assert.Equal(t, name, reg.At(i).Name, "position %d", i)
	}

	neofetch, _ := reg.Lookup("neofetch")
	assert.True(t, neofetch.Hidden)
	assert.Equal(t, reg.Len()-1, reg.VisibleCount())
}

func TestHelpListsVisibleCommands(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "help", "")

	assert.True(t, strings.HasPrefix(out, "Commands available:"))
	assert.Contains(t, out, "uptime")
	assert.NotContains(t, out, "neofetch", "hidden commands stay out of the listing")
	assert.NotContains(t, out, "command not found")
}

func TestHelpAppendsNotFoundTrailer(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "help", "frobnicate")

	assert.Contains(t, out, "`frobnicate` command not found")
}

func TestFreeReportsHeapFigures(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "free", "")

	assert.Contains(t, out, "Free heap size: 1024\r\n")
	assert.Contains(t, out, "Total heap size: 4096\r\n")
	assert.Contains(t, out, "Minimum heap size: 512\r\n")
	assert.Contains(t, out, "Maximum heap block: 256\r\n")
}

func TestDateFormatsCurrentTime(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "date", "")

	assert.Regexp(t,
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} [1-7]\r\n$`), out)
}

func TestDateRejectsSetAttempts(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "date", "2030-01-01 00:00:00")

	assert.Equal(t, "The host clock is read-only\r\n", out)
}

func TestUptimeFormat(t *testing.T) {
	b, reg := newTestBuiltins()
	b.Start = time.Now().Add(-(2*time.Hour + 3*time.Minute + 4*time.Second))

	out := invoke(t, reg, "uptime", "")

	assert.Equal(t, "Uptime: 2h3m4s\r\n", out)
}

func TestClearEmitsResetSequence(t *testing.T) {
	_, reg := newTestBuiltins()

	assert.Equal(t, "\x1b[2J\x1b[H", invoke(t, reg, "clear", ""))
	assert.Equal(t, "\x1b[2J\x1b[H", invoke(t, reg, "cls", ""))
}

func TestVersionPrintsBuildString(t *testing.T) {
	_, reg := newTestBuiltins()

	assert.Equal(t, "devcon 1.2.3\r\n", invoke(t, reg, "version", ""))
}

func TestLogRejectsBadToken(t *testing.T) {
	b, reg := newTestBuiltins()

	out := invoke(t, reg, "log", "chatty")

	assert.Contains(t, out, "log error - only critical errors")
	assert.Equal(t, logging.LevelInfo, b.Broker.Level())
	assert.Zero(t, b.Broker.SinkCount())
}

func TestTopZeroIntervalRendersOnce(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "top", "0")

	assert.Equal(t, 1, strings.Count(out, "Threads:"))
	assert.NotContains(t, out, "\x1b[?25l", "a single-shot frame never hides the cursor")
}

func TestTopMalformedIntervalKeepsConfigured(t *testing.T) {
	b, reg := newTestBuiltins()
	b.TopInterval = -time.Millisecond

	out := invoke(t, reg, "top", "soon")

	// The configured negative interval renders one in-place frame, which
	// proves the malformed argument was ignored rather than applied.
	assert.Equal(t, 1, strings.Count(out, "Threads:"))
	assert.Contains(t, out, "\x1b[0K")
}

func TestNeofetchStaysInvocable(t *testing.T) {
	_, reg := newTestBuiltins()

	out := invoke(t, reg, "neofetch", "")

	assert.Contains(t, out, "you@devcon")
	assert.Contains(t, out, "devcon 1.2.3")
	assert.Contains(t, out, "3072 / 4096 B")
}
