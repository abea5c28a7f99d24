package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sdkpkg",
		Short: "Install and inspect Android SDK packages",
		Long: `Sdkpkg installs SDK archives into an SDK directory and rebuilds the
list of installed packages from the directory layout and the install
records left by previous installs.

Supported package kinds:
  - tool, platform-tool, doc
  - platform, addon, sample
  - extra (extras/<vendor>/<path>)`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addConfigFlags(rootCmd.PersistentFlags())

	// Add subcommands
	rootCmd.AddCommand(NewInstallCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewUninstallCmd())

	return rootCmd
}
