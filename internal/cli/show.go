package cli

import (
	"context"
	"fmt"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/report"
	"github.com/ralt/sdkpkg/internal/scanner"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/targets"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var (
		asJSON      bool
		updatesFrom string
	)

	cmd := &cobra.Command{
		Use:   "show <dir>",
		Short: "Show the package installed in a directory",
		Long: `Reads the install record of a directory and prints the package it
describes. With --updates-from, also lists the packages of another SDK that
can replace it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := loadInstalled(args[0])
			if err != nil {
				return err
			}

			summary := report.Summarize(pkg)
			if updatesFrom != "" {
				updates, err := findUpdates(cmd.Context(), pkg, updatesFrom)
				if err != nil {
					return err
				}
				if summary.Metadata == nil {
					summary.Metadata = map[string]string{}
				}
				for i, u := range updates {
					summary.Metadata[fmt.Sprintf("update.%d", i+1)] = u.ShortDescription()
				}
			}

			out := []models.PackageSummary{summary}
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), out)
			}
			return report.WriteStanzas(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a stanza")
	cmd.Flags().StringVar(&updatesFrom, "updates-from", "", "SDK root to look for newer revisions in")

	return cmd
}

// loadInstalled rebuilds the package whose install record is in dir
func loadInstalled(dir string) (sdk.Package, error) {
	r, err := sdk.ParseRecordDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read install record: %w", err)
	}
	if r == nil {
		return nil, &models.InstallError{
			Type: models.ErrPrecondition,
			Err:  fmt.Errorf("no %s in %s", sdk.RecordFileName, dir),
		}
	}
	return sdk.FromRecord(r, dir, platform.CurrentHost())
}

// findUpdates lists the packages of the SDK at root that can update pkg
func findUpdates(ctx context.Context, pkg sdk.Package, root string) ([]sdk.Package, error) {
	mgr, err := targets.NewFileManager(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}
	inv, err := scanner.NewFileSystemScanner().Scan(ctx, root, mgr)
	if err != nil {
		return nil, err
	}

	var updates []sdk.Package
	for _, candidate := range inv.Packages {
		if sdk.CanBeUpdatedBy(pkg, candidate) == sdk.Update {
			updates = append(updates, candidate)
		}
	}
	return updates, nil
}
