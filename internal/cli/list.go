package cli

import (
	"fmt"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/report"
	"github.com/ralt/sdkpkg/internal/scanner"
	"github.com/ralt/sdkpkg/internal/targets"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the packages installed in the SDK",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			mgr, err := targets.NewFileManager(config.SdkRoot)
			if err != nil {
				return fmt.Errorf("failed to load targets: %w", err)
			}

			logrus.Debugf("Scanning SDK: %s", config.SdkRoot)
			sc := scanner.NewFileSystemScanner(scanner.WithHost(platform.CurrentHost()))
			inv, err := sc.Scan(cmd.Context(), config.SdkRoot, mgr)
			if err != nil {
				return err
			}

			summaries := report.SummarizeAll(inv.Packages)
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), summaries)
			}
			return report.WriteStanzas(cmd.OutOrStdout(), summaries)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of stanzas")

	return cmd
}
