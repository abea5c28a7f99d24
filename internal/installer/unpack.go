package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/extract"
	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

const retryTitle = "sdkpkg: failed to install"

// tempDir returns the first <sdkRoot>/temp/<prefix>.<suffix>NN that does not
// exist yet
func tempDir(sdkRoot, prefix, suffix string) (string, error) {
	base := filepath.Join(sdkRoot, sdk.DirTemp)
	if err := utils.EnsureDir(base); err != nil {
		return "", err
	}
	for n := 1; n < 100; n++ {
		dir := filepath.Join(base, fmt.Sprintf("%s.%s%02d", prefix, suffix, n))
		if !utils.Exists(dir) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no free %s.%sNN directory in %s", prefix, suffix, base)
}

// unarchive extracts archivePath and swaps the result into the package's
// install directory, which it returns. The post-install hook always runs,
// with an empty directory on failure.
func (i *Installer) unarchive(ctx context.Context, a *sdk.Archive, sdkRoot, archivePath string, mgr sdk.Manager, mon monitor.Monitor) (string, error) {
	pkg := a.Package()
	name := pkg.ShortDescription()
	desc := fmt.Sprintf("Installing %s", name)
	mon.SetDescription("%s", desc)
	mon.SetResult("%s", desc)

	kind := pkg.Kind().String()
	var newDir, oldDir string
	success := false
	defer func() {
		i.os.DeleteRecursive(oldDir)
		i.os.DeleteRecursive(newDir)
		if !success {
			pkg.PostInstallHook(a, mon, "")
		}
	}()

	newDir, err := tempDir(sdkRoot, kind, "new")
	if err != nil {
		return "", fail(models.ErrTransientIO, name, err, "Failed to find a temp directory in %s.", sdkRoot)
	}
	if err := os.Mkdir(newDir, 0755); err != nil {
		return "", fail(models.ErrTransientIO, name, err, "Failed to create directory %s", newDir)
	}

	res, err := extract.Extract(archivePath, newDir, extract.Options{
		UnixPerms:     i.host.HasUnixPermissions(),
		SetExecutable: i.os.SetExecutable,
		TotalSize:     a.Size(),
		Progress:      unpackProgress(mon, desc),
		Cancelled:     func() bool { return cancelled(ctx, mon) },
	})
	if errors.Is(err, models.ErrUserCancelled) {
		return "", fail(models.ErrCancelled, name, err, "Install of %s aborted by user.", name)
	}
	if err != nil {
		return "", fail(models.ErrTransientIO, name, err, "Unzip failed: %v", err)
	}

	if err := sdk.SaveRecord(a).Save(newDir); err != nil {
		return "", fail(models.ErrTransientIO, name, err, "Failed to write %s: %v", sdk.RecordFileName, err)
	}

	destDir := pkg.InstallFolder(sdkRoot, res.RootName, mgr, i.installed(ctx, sdkRoot, mgr))
	if destDir == "" {
		return "", fail(models.ErrPrecondition, name, nil, "Failed to compute installation directory for %s.", name)
	}

	if !pkg.PreInstallHook(a, mon, mgr, destDir) {
		return "", fail(models.ErrPrecondition, name, nil, "Skipping archive: %s", name)
	}

	if err := utils.EnsureDir(filepath.Dir(destDir)); err != nil {
		return "", fail(models.ErrTransientIO, name, err, "Failed to create directory %s", filepath.Dir(destDir))
	}

	oldDir, err = i.swap(sdkRoot, kind, destDir, newDir, mon)
	if err != nil {
		return "", fail(models.ErrContention, name, err, "Failed to install %s: %v", name, err)
	}

	newDir = ""
	success = true
	pkg.PostInstallHook(a, mon, destDir)
	return destDir, nil
}

// installed lists the packages already in sdkRoot. A failed scan yields an
// empty list, which only loses in-place upgrades.
func (i *Installer) installed(ctx context.Context, sdkRoot string, mgr sdk.Manager) []sdk.Package {
	inv, err := i.inventory.Scan(ctx, sdkRoot, mgr)
	if err != nil {
		logrus.Warnf("Failed to scan %s: %v", sdkRoot, err)
		return nil
	}
	return inv.Packages
}

// swap moves destDir aside to a temp "old" directory, if it exists, then
// moves newDir into its place. It returns the "old" directory for cleanup.
func (i *Installer) swap(sdkRoot, kind, destDir, newDir string, mon monitor.Monitor) (string, error) {
	var oldDir string
	moved1, moved2 := false, false
	destMoved := false

	for !moved1 || !moved2 {
		failedDir := ""

		if !moved1 {
			if utils.IsDir(destDir) {
				if oldDir == "" {
					dir, err := tempDir(sdkRoot, kind, "old")
					if err != nil {
						return "", fmt.Errorf("no temp directory for %s: %w", destDir, err)
					}
					oldDir = dir
				}
				if err := i.os.Rename(destDir, oldDir); err != nil {
					logrus.Debugf("Rename %s to %s: %v", destDir, oldDir, err)
					mon.SetResult("Failed to rename directory %s to %s.", destDir, oldDir)
					failedDir = destDir
				} else {
					destMoved = true
				}
			}
			moved1 = failedDir == ""
		}

		if moved1 && !moved2 {
			if err := i.os.Rename(newDir, destDir); err != nil {
				logrus.Debugf("Rename %s to %s: %v", newDir, destDir, err)
				mon.SetResult("Failed to rename directory %s to %s", newDir, destDir)
				failedDir = newDir
			}
			moved2 = failedDir == ""
		}

		if failedDir == "" {
			break
		}
		if mon.ConfirmRetry(retryTitle, i.retryMessage(failedDir)) {
			continue
		}

		if destMoved {
			// the rename back is not attempted: the previous content is
			// only recoverable from the old directory until cleanup
			logrus.Warnf("%s was moved to %s and not replaced; the previous install is lost", destDir, oldDir)
		}
		return oldDir, fmt.Errorf("failed to rename directory %s", failedDir)
	}
	return oldDir, nil
}

func (i *Installer) retryMessage(dir string) string {
	if i.host.IsWindows() {
		return fmt.Sprintf("-= Warning ! =-\n"+
			"A folder failed to be renamed or moved. On Windows this typically means "+
			"that a program is using that folder (for example Windows Explorer or your "+
			"anti-virus software.)\n"+
			"Please momentarily deactivate your anti-virus software.\n"+
			"Please also close any running programs that may be accessing the directory '%s'.\n"+
			"When ready, press YES to try again.", dir)
	}
	return fmt.Sprintf("A folder failed to be renamed or moved.\n"+
		"Please close any running programs that may be accessing the directory '%s'.\n"+
		"When ready, press YES to try again.", dir)
}

// unpackProgress turns compressed bytes consumed into progress ticks and a
// percentage in the description
func unpackProgress(mon monitor.Monitor, desc string) func(consumed, total int64) {
	var incCurr, lastPercent int64
	return func(consumed, total int64) {
		step := total / numMonitorInc
		for ; step > 0 && incCurr < consumed; incCurr += step {
			mon.IncProgress(1)
		}
		if total <= 0 {
			return
		}
		if percent := 100 * consumed / total; percent != lastPercent {
			mon.SetDescription("%s (%d%%)", desc, percent)
			lastPercent = percent
		}
	}
}
