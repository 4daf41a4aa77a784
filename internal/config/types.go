package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .devcon.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	Log     LogConfig    `yaml:"log" mapstructure:"log"`
	Top     TopConfig    `yaml:"top" mapstructure:"top"`
	Help    HelpConfig   `yaml:"help" mapstructure:"help"`
	Listen  ListenConfig `yaml:"listen" mapstructure:"listen"`
}

// LogConfig controls the log subsystem defaults.
type LogConfig struct {
	// Level is the initial process-wide verbosity. One of:
	// error, warn, info, default, debug, trace.
	Level string `yaml:"level" mapstructure:"level"`

	// Buffer is the relay ring capacity in bytes for `log` sessions.
	Buffer int `yaml:"buffer" mapstructure:"buffer"`
}

// TopConfig controls the live monitor defaults.
type TopConfig struct {
	// Interval is the default refresh interval for `top`.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// HelpConfig controls the help listing layout.
type HelpConfig struct {
	// Columns is the number of columns in the command listing.
	Columns int `yaml:"columns" mapstructure:"columns"`
}

// ListenConfig configures the network console transport for `serve`.
type ListenConfig struct {
	// Addr is the SSH listen address, e.g. ":2022".
	Addr string `yaml:"addr" mapstructure:"addr"`

	// HostKey is the path to the persistent host key. Generated on
	// first use if missing.
	HostKey string `yaml:"host_key" mapstructure:"host_key"`

	// Password protects console access. Empty disables authentication,
	// which is only sensible on a trusted link.
	Password string `yaml:"password" mapstructure:"password"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Log: LogConfig{
			Level:  "info",
			Buffer: 2048,
		},
		Top: TopConfig{
			Interval: time.Second,
		},
		Help: HelpConfig{
			Columns: 3,
		},
		Listen: ListenConfig{
			Addr:    ":2022",
			HostKey: "~/.config/devcon/host_key",
		},
	}
}
