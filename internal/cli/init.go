package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/devconsole/devcon/internal/config"
	"github.com/devconsole/devcon/internal/errors"
)

var initForce bool

// initCmd writes a default .devcon.yaml in the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .devcon.yaml configuration",
	Long: `Write a .devcon.yaml file with the default configuration in the
current directory.

Examples:
  devcon init
  devcon init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(initForce)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

func runInit(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot encode the default configuration", "")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write "+configPath,
			"Check directory permissions")
	}

	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
