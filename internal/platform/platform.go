package platform

import (
	"runtime"
	"strings"
)

// Os is the operating system an archive can be installed on
type Os int

// Arch is the CPU architecture an archive can be installed on
type Arch int

const (
	OsUnknown Os = iota - 1
	OsAny
	OsLinux
	OsMacOSX
	OsWindows
)

const (
	ArchUnknown Arch = iota - 1
	ArchAny
	ArchPPC
	ArchX86
	ArchX86_64
)

// goos and goarch are overridden by tests that need a foreign host
var (
	goos   = runtime.GOOS
	goarch = runtime.GOARCH
)

// CurrentOs maps the running host to an Os value, or OsUnknown
func CurrentOs() Os {
	switch goos {
	case "linux":
		return OsLinux
	case "darwin":
		return OsMacOSX
	case "windows":
		return OsWindows
	default:
		return OsUnknown
	}
}

// CurrentArch maps the running host to an Arch value, or ArchUnknown
func CurrentArch() Arch {
	switch goarch {
	case "amd64":
		return ArchX86_64
	case "386":
		return ArchX86
	case "ppc64", "ppc64le":
		return ArchPPC
	default:
		return ArchUnknown
	}
}

// IsCompatible returns true if this OS is ANY or matches the running host
func (o Os) IsCompatible() bool {
	return o.CompatibleWith(CurrentOs())
}

// CompatibleWith returns true if this OS is ANY or equals host
func (o Os) CompatibleWith(host Os) bool {
	if o == OsAny {
		return true
	}
	return o != OsUnknown && o == host
}

// IsCompatible returns true if this architecture is ANY or matches the running host
func (a Arch) IsCompatible() bool {
	return a.CompatibleWith(CurrentArch())
}

// CompatibleWith returns true if this architecture is ANY or equals host
func (a Arch) CompatibleWith(host Arch) bool {
	if a == ArchAny {
		return true
	}
	return a != ArchUnknown && a == host
}

// String returns the lower-case XML name of the OS
func (o Os) String() string {
	switch o {
	case OsAny:
		return "any"
	case OsLinux:
		return "linux"
	case OsMacOSX:
		return "macosx"
	case OsWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// RecordName returns the name persisted in install records
func (o Os) RecordName() string {
	return strings.ToUpper(o.String())
}

// UiName returns the display name of the OS
func (o Os) UiName() string {
	switch o {
	case OsAny:
		return "Any"
	case OsLinux:
		return "Linux"
	case OsMacOSX:
		return "MacOS X"
	case OsWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// String returns the lower-case XML name of the architecture
func (a Arch) String() string {
	switch a {
	case ArchAny:
		return "any"
	case ArchPPC:
		return "ppc"
	case ArchX86:
		return "x86"
	case ArchX86_64:
		return "x86_64"
	default:
		return "unknown"
	}
}

// RecordName returns the name persisted in install records
func (a Arch) RecordName() string {
	return strings.ToUpper(a.String())
}

// UiName returns the display name of the architecture
func (a Arch) UiName() string {
	switch a {
	case ArchAny:
		return "Any"
	case ArchPPC:
		return "PowerPC"
	case ArchX86:
		return "x86"
	case ArchX86_64:
		return "x86_64"
	default:
		return "Unknown"
	}
}

// ParseOs accepts either the XML or the record name, case-insensitively
func ParseOs(s string) Os {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any":
		return OsAny
	case "linux":
		return OsLinux
	case "macosx", "darwin":
		return OsMacOSX
	case "windows":
		return OsWindows
	default:
		return OsUnknown
	}
}

// ParseArch accepts either the XML or the record name, case-insensitively
func ParseArch(s string) Arch {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any":
		return ArchAny
	case "ppc", "powerpc":
		return ArchPPC
	case "x86", "i386", "i686", "386":
		return ArchX86
	case "x86_64", "amd64":
		return ArchX86_64
	default:
		return ArchUnknown
	}
}
