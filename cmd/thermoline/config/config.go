// Package configcmder provides the config command for managing persistent
// thermoline configuration stored in the .thermoline/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent thermoline configuration.

Configuration is stored as config.toml in the .thermoline/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  server.base_url,
  stream.backoff, stream.connect_timeout,
  safety.min, safety.max,
  sensord.listen, sensord.interval, sensord.start_temp

Use subcommands to get, set, or list configuration values:
  thermoline config set <key> <value>    Set a configuration value
  thermoline config get <key>            Get a configuration value
  thermoline config list                 List all configuration values

Examples:
  thermoline config set server.base_url http://sensor.lab:3000
  thermoline config set safety.max 75
  thermoline config get stream.backoff
  thermoline config list`

const configShortDesc string = "Manage persistent thermoline configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
