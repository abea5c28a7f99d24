package cli

import (
	"fmt"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <dir>",
		Short: "Remove an installed package",
		Long: `Removes the package installed in a directory. The directory must hold an
install record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadInstalled(args[0])
			if err != nil {
				return err
			}

			helper := utils.NewOsHelper(platform.CurrentHost())
			for _, a := range pkg.Archives() {
				a.DeleteLocal(helper)
			}
			if err := helper.Flush(); err != nil {
				return fmt.Errorf("failed to remove %s: %w", args[0], err)
			}

			logrus.Infof("Removed %s", pkg.ShortDescription())
			return nil
		},
	}

	return cmd
}
