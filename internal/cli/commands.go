package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devconsole/devcon/internal/config"
	"github.com/devconsole/devcon/internal/errors"
	"github.com/devconsole/devcon/internal/logging"
	"github.com/devconsole/devcon/internal/relay"
	"github.com/devconsole/devcon/internal/server"
	"github.com/devconsole/devcon/internal/shell"
	"github.com/devconsole/devcon/internal/top"
)

// Command-specific flags
var (
	topIntervalFlag string
	serveAddrFlag   string
)

// shellCmd runs an interactive session on the current terminal.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive diagnostics shell",
	Long: `Start an interactive diagnostics session on the current terminal.

The terminal is switched to raw mode so Ctrl+C interrupts the running
command instead of the process. Exit with Ctrl+D.

Examples:
  devcon shell`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runLocalShell(cfg)
	},
}

// serveCmd exposes the shell over SSH.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnostics shell over SSH",
	Long: `Listen for SSH connections and run one diagnostics session per
connection.

The host key is generated on first use and persisted at the configured
path. An empty listen.password in the config disables authentication;
only do that on a trusted link.

Examples:
  devcon serve
  devcon serve --addr :2022`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddrFlag != "" {
			cfg.Listen.Addr = serveAddrFlag
		}
		return runServe(cfg)
	},
}

// topCmd runs the live telemetry monitor directly.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live execution-unit and heap monitor",
	Long: `Continuously refresh a table of live execution units and heap
statistics, redrawn in place.

An interval of 0 renders a single table and exits. Stop a live monitor
with Ctrl+C.

Examples:
  devcon top
  devcon top --interval 500ms
  devcon top --interval 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		interval := cfg.Top.Interval
		if topIntervalFlag != "" {
			parsed, err := time.ParseDuration(topIntervalFlag)
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrInput,
					fmt.Sprintf("Invalid interval: %s", topIntervalFlag),
					"Use a duration like 1s, 500ms, or 0 for a single table")
			}
			interval = parsed
		}

		monitor := top.NewMonitor(sharedSource)
		monitor.Run(os.Stdout, newSignalCanceler(), interval)
		return nil
	},
}

// logCmd runs the log relay directly.
var logCmd = &cobra.Command{
	Use:   "log [level]",
	Short: "Relay live log output",
	Long: `Stream live log records to the terminal until interrupted.

With a level argument the process-wide verbosity is raised or lowered
for the duration of the relay and restored afterwards. Accepted levels:
error, warn, info, default, debug, trace.

Examples:
  devcon log
  devcon log debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		levelArg := ""
		if len(args) > 0 {
			levelArg = args[0]
		}

		session := relay.NewSession(logging.Default())
		if cfg.Log.Buffer > 0 {
			session.Capacity = cfg.Log.Buffer
		}
		session.Run(os.Stdout, newSignalCanceler(), levelArg)
		return nil
	},
}

func init() {
	topCmd.Flags().StringVar(&topIntervalFlag, "interval", "", "refresh interval (e.g., 1s, 500ms, 0 for one table)")
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (overrides config)")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(logCmd)
}

// runLocalShell runs a session over the current terminal, in raw mode
// when stdin is a terminal.
func runLocalShell(cfg *config.Config) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrShell,
				"Cannot switch the terminal to raw mode",
				"Run devcon shell from an interactive terminal")
		}
		defer term.Restore(fd, oldState)
	}

	registry := shell.NewRegistry()
	newBuiltins(cfg).Register(registry)

	session := shell.NewSession(os.Stdin, os.Stdout)
	sh := shell.New(session, registry, nil)
	sh.Banner = shellBanner()
	return sh.Run()
}

// runServe starts the SSH console server.
func runServe(cfg *config.Config) error {
	signer, err := server.LoadOrGenerateHostKey(config.ExpandHome(cfg.Listen.HostKey))
	if err != nil {
		return err
	}

	handler := func(in io.Reader, out io.Writer) {
		registry := shell.NewRegistry()
		newBuiltins(cfg).Register(registry)

		session := shell.NewSession(in, out)
		sh := shell.New(session, registry, nil)
		sh.Banner = shellBanner()
		sh.Run()
	}

	srv := server.New(cfg.Listen.Addr, signer, cfg.Listen.Password, handler)

	// Release the listener on SIGINT/SIGTERM so Serve returns.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		srv.Close()
	}()

	fmt.Printf("devcon console listening on %s\n", cfg.Listen.Addr)
	return srv.ListenAndServe()
}

// signalCanceler adapts SIGINT/SIGTERM to the polled cancellation
// predicate the streaming commands expect.
type signalCanceler struct {
	flag atomic.Bool
}

func newSignalCanceler() *signalCanceler {
	c := &signalCanceler{}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		c.flag.Store(true)
		signal.Stop(sig)
	}()
	return c
}

func (c *signalCanceler) Interrupted() bool {
	return c.flag.Load()
}
