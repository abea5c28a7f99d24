package extract

import "github.com/ralt/sdkpkg/internal/platform"

var (
	posixHost   = platform.Host{Os: platform.OsLinux, Arch: platform.ArchX86_64}
	windowsHost = platform.Host{Os: platform.OsWindows, Arch: platform.ArchX86_64}
)
