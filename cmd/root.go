package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solarscan/solarscan-go/cmd/file"
	"github.com/solarscan/solarscan-go/cmd/server"
	"github.com/solarscan/solarscan-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solarscan",
		Short: "SolarScan-Go CLI",
		Long:  "Solar panel damage analysis and performance prediction service.",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		server.Command(settings),
		file.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags configures the global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}
