package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sbu-cli/sbu/internal/config"
	"github.com/sbu-cli/sbu/internal/errors"
	"github.com/sbu-cli/sbu/internal/paths"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sbu configuration",
	Long: `Manage the sbu configuration file.

The configuration file supplies defaults for flags you do not pass
explicitly; flags always win. The file lives at ` + "`<XDG config>/sbu/config.yaml`" + `.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as YAML, after merging the config
file, SBU_* environment variables, and built-in defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configLoadErr != nil {
			return errors.NewUserError(configLoadErr, "fix or remove the config file")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshaling config")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", paths.ConfigFile(), data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return errors.NewExitError(err, errors.ExitSystem)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}
