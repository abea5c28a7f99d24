package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ralt/sdkpkg/internal/installer"
	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/scanner"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/targets"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// packageOptions describes the remote package to install
type packageOptions struct {
	Kind string

	// Common fields
	Revision    int
	License     string
	Description string
	SourceURL   string

	// Archive
	URL      string
	Size     int64
	Checksum string
	Os       string
	Arch     string

	// Kind-specific fields
	API                 int
	Codename            string
	VersionName         string
	Name                string
	Vendor              string
	Path                string
	MinAPILevel         int
	MinToolsRev         int
	MinPlatformToolsRev int

	Force bool
}

// NewInstallCmd creates the install command
func NewInstallCmd() *cobra.Command {
	var opts packageOptions

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install one archive into the SDK",
		Long: `Downloads the archive described by the flags, verifies its size and
SHA-1 checksum, unpacks it and moves it into its install directory. An
installed package of the same item is replaced in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			pkg, err := buildPackage(&opts)
			if err != nil {
				return err
			}

			logrus.Infof("Installing %s into %s", pkg.ShortDescription(), config.SdkRoot)
			return runInstall(cmd, config, pkg, opts.Force)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Package kind (tool, platform-tool, doc, platform, addon, sample, extra)")

	// Common flags
	cmd.Flags().IntVarP(&opts.Revision, "revision", "r", 1, "Package revision")
	cmd.Flags().StringVar(&opts.License, "license", "", "Package license text")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Package description")
	cmd.Flags().StringVar(&opts.SourceURL, "source-url", "", "Repository descriptor URL relative archive URLs resolve against")

	// Archive flags
	cmd.Flags().StringVarP(&opts.URL, "url", "u", "", "Archive URL, absolute or relative to --source-url")
	cmd.Flags().Int64Var(&opts.Size, "size", 0, "Archive size in bytes")
	cmd.Flags().StringVar(&opts.Checksum, "checksum", "", "Archive SHA-1 checksum")
	cmd.Flags().StringVar(&opts.Os, "os", "any", "Archive OS (any, linux, macosx, windows)")
	cmd.Flags().StringVar(&opts.Arch, "arch", "any", "Archive architecture (any, ppc, x86, x86_64)")

	// Kind-specific flags
	cmd.Flags().IntVar(&opts.API, "api", 0, "API level (doc, platform, addon, sample)")
	cmd.Flags().StringVar(&opts.Codename, "codename", "", "Preview codename (doc, platform, addon, sample)")
	cmd.Flags().StringVar(&opts.VersionName, "version-name", "", "Platform version name, e.g. 2.3.3")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Add-on name")
	cmd.Flags().StringVar(&opts.Vendor, "vendor", "", "Add-on or extra vendor")
	cmd.Flags().StringVar(&opts.Path, "path", "", "Extra install path")
	cmd.Flags().IntVar(&opts.MinAPILevel, "min-api-level", sdk.NotSpecified, "Minimum API level (sample, extra)")
	cmd.Flags().IntVar(&opts.MinToolsRev, "min-tools-rev", sdk.NotSpecified, "Minimum tools revision (platform, sample, extra)")
	cmd.Flags().IntVar(&opts.MinPlatformToolsRev, "min-platform-tools-rev", sdk.NotSpecified, "Minimum platform-tools revision (tool)")

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Install even if the same or a newer revision is installed")

	return cmd
}

// buildPackage creates the remote package described by opts
func buildPackage(opts *packageOptions) (sdk.Package, error) {
	kind, ok := sdk.ParseKind(opts.Kind)
	if !ok || kind == sdk.KindBroken {
		return nil, invalidFlag("unknown package kind %q", opts.Kind)
	}
	if opts.URL == "" {
		return nil, invalidFlag("url is required")
	}
	if opts.Size <= 0 {
		return nil, invalidFlag("size must be positive")
	}
	if !utils.IsValidSHA1(opts.Checksum) {
		return nil, invalidFlag("checksum must be a %d character SHA-1", utils.SHA1Size)
	}

	archiveOs := platform.ParseOs(opts.Os)
	if archiveOs == platform.OsUnknown {
		return nil, invalidFlag("unknown os %q", opts.Os)
	}
	archiveArch := platform.ParseArch(opts.Arch)
	if archiveArch == platform.ArchUnknown {
		return nil, invalidFlag("unknown arch %q", opts.Arch)
	}

	info := sdk.Info{
		Revision:    opts.Revision,
		License:     opts.License,
		Description: opts.Description,
		SourceURL:   opts.SourceURL,
	}
	archives := []sdk.RemoteArchive{{
		Os:       archiveOs,
		Arch:     archiveArch,
		URL:      opts.URL,
		Size:     opts.Size,
		Checksum: opts.Checksum,
	}}
	version := sdk.AndroidVersion{APILevel: opts.API, Codename: opts.Codename}

	needsAPI := func() error {
		if opts.API <= 0 {
			return invalidFlag("api is required for %s packages", kind)
		}
		return nil
	}

	switch kind {
	case sdk.KindTool:
		return sdk.NewToolPackage(info, opts.MinPlatformToolsRev, archives), nil
	case sdk.KindPlatformTool:
		return sdk.NewPlatformToolPackage(info, archives), nil
	case sdk.KindDoc:
		return sdk.NewDocPackage(info, version, archives), nil
	case sdk.KindPlatform:
		if err := needsAPI(); err != nil {
			return nil, err
		}
		name := opts.VersionName
		if name == "" {
			name = version.APIString()
		}
		return sdk.NewPlatformPackage(info, version, name, opts.MinToolsRev, archives), nil
	case sdk.KindAddon:
		if err := needsAPI(); err != nil {
			return nil, err
		}
		if opts.Name == "" || opts.Vendor == "" {
			return nil, invalidFlag("name and vendor are required for addon packages")
		}
		return sdk.NewAddonPackage(info, opts.Name, opts.Vendor, version, archives), nil
	case sdk.KindSample:
		if err := needsAPI(); err != nil {
			return nil, err
		}
		return sdk.NewSamplePackage(info, version, opts.MinAPILevel, opts.MinToolsRev, archives), nil
	default:
		if opts.Path == "" {
			return nil, invalidFlag("path is required for extra packages")
		}
		return sdk.NewExtraPackage(info, opts.Vendor, opts.Path, opts.MinAPILevel, opts.MinToolsRev, archives), nil
	}
}

func invalidFlag(format string, args ...any) error {
	return &models.InstallError{
		Type: models.ErrInvalidConfig,
		Err:  fmt.Errorf(format, args...),
	}
}

func runInstall(cmd *cobra.Command, config *models.InstallConfig, pkg sdk.Package, force bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := utils.EnsureDir(config.SdkRoot); err != nil {
		return fmt.Errorf("failed to create SDK root: %w", err)
	}
	mgr, err := targets.NewFileManager(config.SdkRoot)
	if err != nil {
		return fmt.Errorf("failed to load targets: %w", err)
	}

	host := platform.CurrentHost()
	sc := scanner.NewFileSystemScanner(scanner.WithHost(host))
	if !force {
		inv, err := sc.Scan(ctx, config.SdkRoot, mgr)
		if err != nil {
			return fmt.Errorf("failed to scan SDK: %w", err)
		}
		for _, installed := range inv.Packages {
			if sdk.CanBeUpdatedBy(installed, pkg) == sdk.NotUpdate {
				logrus.Infof("%s is already installed, nothing to do", installed.ShortDescription())
				return nil
			}
		}
	}

	helper := utils.NewOsHelper(host)
	defer func() {
		if err := helper.Flush(); err != nil {
			logrus.Warnf("Failed to clean up: %v", err)
		}
	}()

	inst := installer.New(
		installer.WithHTTPClient(&http.Client{Timeout: config.HTTPTimeout}),
		installer.WithHost(host),
		installer.WithOsHelper(helper),
		installer.WithInventory(sc),
	)
	mon := monitor.NewLogMonitor("install",
		monitor.WithRetryPolicy(config.RetryPolicy, config.MaxRetries),
		monitor.WithPrompt(cmd.InOrStdin(), cmd.ErrOrStderr()),
		monitor.WithContext(ctx),
	)

	local, ok := inst.InstallLocal(ctx, pkg.Archives()[0], config.SdkRoot, config.ForceHTTP, mgr, mon)
	if !ok {
		return fmt.Errorf("failed to install %s", pkg.ShortDescription())
	}
	logrus.Debugf("Recorded %s in %s", local.Package().ShortDescription(), local.LocalPath())
	return nil
}
