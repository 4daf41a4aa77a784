package config

import (
	"fmt"

	"github.com/devconsole/devcon/internal/errors"
	"github.com/devconsole/devcon/internal/logging"
)

// Validate checks a parsed config for values the runtime cannot use.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than supported version %d", cfg.Version, CurrentConfigVersion),
			"Upgrade devcon, or regenerate the config with 'devcon init'")
	}

	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", cfg.Log.Level),
			"Use one of: error, warn, info, default, debug, trace")
	}

	if cfg.Log.Buffer < 0 {
		return errors.New(errors.ErrConfig,
			"log.buffer must be positive",
			"Use a byte count like 2048")
	}

	if cfg.Top.Interval < 0 {
		return errors.New(errors.ErrConfig,
			"top.interval must not be negative",
			"Use a duration like 1s or 500ms")
	}

	if cfg.Help.Columns < 1 {
		return errors.New(errors.ErrConfig,
			"help.columns must be at least 1",
			"Use a small column count like 3")
	}

	if cfg.Listen.Addr == "" {
		return errors.New(errors.ErrConfig,
			"listen.addr must not be empty",
			"Use an address like :2022")
	}

	return nil
}
