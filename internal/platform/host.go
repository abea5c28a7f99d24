package platform

// Host describes the machine an install runs on. Components take a Host
// instead of reading the runtime directly so foreign hosts can be simulated.
type Host struct {
	Os   Os
	Arch Arch
}

// CurrentHost returns the Host for the running process
func CurrentHost() Host {
	return Host{Os: CurrentOs(), Arch: CurrentArch()}
}

// IsWindows reports whether the host lacks Unix permission semantics
func (h Host) IsWindows() bool {
	return h.Os == OsWindows
}

// HasUnixPermissions reports whether extracted files should get their
// executable bit restored
func (h Host) HasUnixPermissions() bool {
	return h.Os == OsLinux || h.Os == OsMacOSX
}

// Supports returns true if an archive for os/arch can be installed on h
func (h Host) Supports(os Os, arch Arch) bool {
	return os.CompatibleWith(h.Os) && arch.CompatibleWith(h.Arch)
}
