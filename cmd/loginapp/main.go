package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version     = "dev" // Will be set during build
	cfgFile     string
	showVersion bool
)

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:           "loginapp",
	Short:         "Login de usuarios",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `loginapp - user login against an in-memory user store

Users are seeded from the built-in defaults or from seed_file. When a user is
not found locally an optional secondary source (remote_url or remote_seed_file)
is consulted and its answer cached.

Configuration may be JSON or YAML (by extension), for example:
{
    "seed_file": "users.yaml",
    "remote_url": "http://directory.internal/login",
    "remote_timeout": 5,
    "max_attempts": 3,
    "listen_addr": "0.0.0.0",
    "port": 2121,
    "root_dir": "/srv/loginapp",
    "home_pattern": "users/%s",
    "passive_port_range": [50000, 50100],
    "idle_timeout": 300,
    "access_log_path": "/var/log/loginapp/access.log",
    "app_log_path": "/var/log/loginapp/app.log",
    "log_level": "info"
}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "loginapp %s\n", version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (JSON or YAML)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version information")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newServeCmd())
}
