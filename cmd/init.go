package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/fitch/check"
)

var forceInit bool

// initCmd: fitch init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file listing every check at its default severity",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = check.DefaultConfigName
		}
		if err := initConfigurationFile(path, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initConfigurationFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return check.WriteConfigurationFile(path, check.DefaultConfig())
}
