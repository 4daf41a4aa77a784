package shell

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/devconsole/devcon/internal/logging"
	"github.com/devconsole/devcon/internal/relay"
	"github.com/devconsole/devcon/internal/telemetry"
	"github.com/devconsole/devcon/internal/top"
	"github.com/devconsole/devcon/internal/ui"
)

// Builtins wires the standard command set against its collaborators.
type Builtins struct {
	Broker *logging.Broker
	Source telemetry.Source
	Start  time.Time

	Version string

	LogCapacity int
	TopInterval time.Duration
	HelpColumns int

	// reg is the registry the help listing iterates, set by Register.
	reg *Registry
}

// Register adds the builtin commands to the registry in listing order.
func (b *Builtins) Register(reg *Registry) {
	b.reg = reg
	reg.MustAdd("?", false, b.help)
	reg.MustAdd("help", false, b.help)
	reg.MustAdd("clear", false, b.clear)
	reg.MustAdd("cls", false, b.clear)
	reg.MustAdd("date", false, b.date)
	reg.MustAdd("free", false, b.free)
	reg.MustAdd("l", false, b.log)
	reg.MustAdd("log", false, b.log)
	reg.MustAdd("neofetch", true, b.neofetch)
	reg.MustAdd("top", false, b.top)
	reg.MustAdd("uptime", false, b.uptime)
	reg.MustAdd("version", false, b.version)
}

// help lists the visible commands in balanced columns. When invoked by
// the dispatcher for an unknown command, args carries the bad name and a
// trailer is appended.
func (b *Builtins) help(s *Session, args string) {
	fmt.Fprint(s, "Commands available:")
	RenderColumns(s, b.reg, b.HelpColumns)

	if args != "" {
		fmt.Fprintf(s, "\r\n`%s` command not found", args)
	}
	fmt.Fprint(s, "\r\n")
}

func (b *Builtins) log(s *Session, args string) {
	session := relay.NewSession(b.Broker)
	if b.LogCapacity > 0 {
		session.Capacity = b.LogCapacity
	}
	session.Run(s, s, strings.TrimSpace(args))
}

func (b *Builtins) top(s *Session, args string) {
	interval := b.TopInterval
	if interval == 0 {
		interval = top.DefaultInterval
	}
	if args != "" {
		// Interval argument is in milliseconds; a malformed value keeps
		// the default, matching the lenient argument reader this shell
		// descends from.
		if ms, err := strconv.Atoi(strings.Fields(args)[0]); err == nil {
			interval = time.Duration(ms) * time.Millisecond
		}
	}

	monitor := top.NewMonitor(b.Source)
	monitor.Run(s, s, interval)
}

func (b *Builtins) uptime(s *Session, args string) {
	seconds := int64(time.Since(b.Start).Seconds())
	fmt.Fprintf(s, "Uptime: %dh%dm%ds\r\n",
		seconds/3600, seconds/60%60, seconds%60)
}

func (b *Builtins) free(s *Session, args string) {
	snap := b.Source.Snapshot()
	fmt.Fprintf(s, "Free heap size: %d\r\n", snap.HeapFree)
	fmt.Fprintf(s, "Total heap size: %d\r\n", snap.HeapTotal)
	fmt.Fprintf(s, "Minimum heap size: %d\r\n", snap.HeapMinFree)
	fmt.Fprintf(s, "Maximum heap block: %d\r\n", snap.HeapMaxBlock)
}

func (b *Builtins) date(s *Session, args string) {
	if args != "" {
		fmt.Fprint(s, "The host clock is read-only\r\n")
		return
	}
	now := time.Now()
	isoWeekday := (int(now.Weekday())+6)%7 + 1
	fmt.Fprintf(s, "%s %d\r\n", now.Format("2006-01-02 15:04:05"), isoWeekday)
}

func (b *Builtins) clear(s *Session, args string) {
	fmt.Fprint(s, "\x1b[2J\x1b[H")
}

func (b *Builtins) version(s *Session, args string) {
	fmt.Fprintf(s, "devcon %s\r\n", b.Version)
}

// neofetch is a hidden easter egg: a tiny banner plus host facts.
func (b *Builtins) neofetch(s *Session, args string) {
	snap := b.Source.Snapshot()
	seconds := int64(time.Since(b.Start).Seconds())

	fmt.Fprintf(s, "%s\r\n", ui.TitleStyle.Render("you@devcon"))
	fmt.Fprint(s, "----------\r\n")

	rows := []struct {
		label string
		value string
	}{
		{label: "OS:", value: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
		{label: "Runtime:", value: runtime.Version()},
		{label: "Shell:", value: "devcon " + b.Version},
		{label: "Uptime:", value: fmt.Sprintf("%dh%dm%ds", seconds/3600, seconds/60%60, seconds%60)},
		{label: "Memory:", value: fmt.Sprintf("%d / %d B", snap.HeapTotal-snap.HeapFree, snap.HeapTotal)},
		{label: "Units:", value: fmt.Sprintf("%d", len(snap.Records))},
	}
	for _, row := range rows {
		fmt.Fprintf(s, "%s%s\r\n", ui.PadRight(ui.LabelStyle.Render(row.label), 9), row.value)
	}
}
