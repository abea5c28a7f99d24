package sdk

import "github.com/ralt/sdkpkg/internal/platform"

// DocsMarker must exist in a docs directory for it to count as installed
const DocsMarker = "index.html"

// AndroidCmdName returns the name of the tools' command line driver on host
func AndroidCmdName(host platform.Host) string {
	if host.IsWindows() {
		return "android.bat"
	}
	return "android"
}

// EmulatorCmdName returns the name of the emulator executable on host
func EmulatorCmdName(host platform.Host) string {
	if host.IsWindows() {
		return "emulator.exe"
	}
	return "emulator"
}

// AdbCmdName returns the name of the adb executable on host
func AdbCmdName(host platform.Host) string {
	if host.IsWindows() {
		return "adb.exe"
	}
	return "adb"
}

// ToolMarkers lists the files a tools directory must contain on host
func ToolMarkers(host platform.Host) []string {
	return []string{AndroidCmdName(host), EmulatorCmdName(host)}
}

// PlatformToolMarkers lists the files a platform-tools directory must contain on host
func PlatformToolMarkers(host platform.Host) []string {
	return []string{AdbCmdName(host)}
}
