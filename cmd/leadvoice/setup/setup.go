package setup

import (
	"fmt"

	"leadvoice/internal/config"

	"github.com/spf13/cobra"
)

var path string

var Cmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if path == "" {
			path = config.Path()
		}
		if err := config.WriteDefaults(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&path, "output", "o", "", "config file to create")
}
