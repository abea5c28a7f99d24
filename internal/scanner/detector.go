package scanner

import (
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

// hasMarkers returns true if dir contains every named file
func hasMarkers(dir string, names []string) bool {
	for _, name := range names {
		if !utils.IsFile(filepath.Join(dir, name)) {
			return false
		}
	}
	return true
}

// readRecord returns the install record stored in dir. A missing, empty or
// unreadable record yields nil.
func readRecord(dir string) *sdk.Record {
	r, err := sdk.ParseRecordDir(dir)
	if err != nil {
		logrus.Warnf("Ignoring unreadable %s in %s: %v", sdk.RecordFileName, dir, err)
		return nil
	}
	return r
}

// detectDocs accepts a docs directory only if it holds the documentation index
func detectDocs(dir string, host platform.Host) sdk.Package {
	if !utils.IsFile(filepath.Join(dir, sdk.DocsMarker)) {
		return nil
	}
	return sdk.LocalDocPackage(readRecord(dir), dir, host)
}

// detectTools accepts a tools directory only if it holds the command line
// driver and the emulator built for host
func detectTools(dir string, host platform.Host) sdk.Package {
	if !hasMarkers(dir, sdk.ToolMarkers(host)) {
		if utils.IsDir(dir) {
			logrus.Debugf("Ignoring %s: missing %v", dir, sdk.ToolMarkers(host))
		}
		return nil
	}
	return sdk.LocalToolPackage(readRecord(dir), dir, host)
}

// detectPlatformTools accepts a platform-tools directory only if it holds
// adb built for host
func detectPlatformTools(dir string, host platform.Host) sdk.Package {
	if !hasMarkers(dir, sdk.PlatformToolMarkers(host)) {
		if utils.IsDir(dir) {
			logrus.Debugf("Ignoring %s: missing %v", dir, sdk.PlatformToolMarkers(host))
		}
		return nil
	}
	return sdk.LocalPlatformToolPackage(readRecord(dir), dir, host)
}
