// Package cli defines the devcon command tree.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devconsole/devcon/internal/config"
	"github.com/devconsole/devcon/internal/logging"
	"github.com/devconsole/devcon/internal/shell"
	"github.com/devconsole/devcon/internal/telemetry"
	"github.com/devconsole/devcon/internal/ui"
)

// configFlag is the --config persistent flag value.
var configFlag string

// processStart anchors the uptime reported by shell commands.
var processStart = time.Now()

var rootCmd = &cobra.Command{
	Use:   "devcon",
	Short: "Device diagnostics console",
	Long: `devcon is an interactive diagnostics console.

Run 'devcon shell' for an interactive session on the current terminal,
or 'devcon serve' to expose the console over SSH. The live monitor and
log relay are also available as direct subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")
}

// loadConfig resolves the effective configuration and applies the
// configured log level to the process-wide broker.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if level, ok := logging.ParseLevel(cfg.Log.Level); ok {
		logging.Default().SetLevel(level)
	}
	return cfg, nil
}

// sharedSource is the telemetry source shared by every session in this
// process.
var sharedSource = telemetry.NewRuntimeSource()

// newBuiltins assembles the builtin command set for one session.
func newBuiltins(cfg *config.Config) *shell.Builtins {
	return &shell.Builtins{
		Broker:      logging.Default(),
		Source:      sharedSource,
		Start:       processStart,
		Version:     version,
		LogCapacity: cfg.Log.Buffer,
		TopInterval: cfg.Top.Interval,
		HelpColumns: cfg.Help.Columns,
	}
}

// shellBanner is printed when an interactive session opens.
func shellBanner() string {
	return fmt.Sprintf("devcon %s diagnostics console. Type 'help' for commands, Ctrl+D to exit.", formatVersion(version))
}
