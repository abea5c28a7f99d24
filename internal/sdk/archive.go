package sdk

import (
	"fmt"
	"strings"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/utils"
)

const (
	propArchiveOs   = "Archive.Os"
	propArchiveArch = "Archive.Arch"

	// ChecksumSHA1 is the only checksum algorithm archives declare
	ChecksumSHA1 = "sha1"
)

// RemoteArchive describes one downloadable archive of a remote package, as
// produced by the repository metadata parser
type RemoteArchive struct {
	Os       platform.Os
	Arch     platform.Arch
	URL      string
	Size     int64
	Checksum string
}

// Archive is one downloadable or installed unit of a package. Installing a
// remote archive never makes it local: the installed unit is a new local
// Archive rebuilt from its install record.
type Archive struct {
	os       platform.Os
	arch     platform.Arch
	url      string
	size     int64
	checksum string
	pkg      Package

	localPath string
}

func newRemoteArchive(pkg Package, ra RemoteArchive) *Archive {
	return &Archive{
		os:       ra.Os,
		arch:     ra.Arch,
		url:      strings.TrimSpace(ra.URL),
		size:     ra.Size,
		checksum: ra.Checksum,
		pkg:      pkg,
	}
}

// newLocalArchive builds the archive of an installed package. The record's
// Archive.Os and Archive.Arch win over the given values.
func newLocalArchive(pkg Package, r *Record, os platform.Os, arch platform.Arch, localPath string) *Archive {
	if s, ok := r.Get(propArchiveOs); ok {
		os = platform.ParseOs(s)
	}
	if s, ok := r.Get(propArchiveArch); ok {
		arch = platform.ParseArch(s)
	}
	return &Archive{
		os:        os,
		arch:      arch,
		pkg:       pkg,
		localPath: localPath,
	}
}

// Os returns the OS the archive was built for
func (a *Archive) Os() platform.Os { return a.os }

// Arch returns the architecture the archive was built for
func (a *Archive) Arch() platform.Arch { return a.arch }

// URL returns the absolute or source-relative download URL. Empty for a local archive.
func (a *Archive) URL() string { return a.url }

// Size returns the download size in bytes. 0 for a local archive.
func (a *Archive) Size() int64 { return a.size }

// Checksum returns the hex SHA-1 of the download. Empty for a local archive.
func (a *Archive) Checksum() string { return a.checksum }

// ChecksumType returns the algorithm of Checksum
func (a *Archive) ChecksumType() string { return ChecksumSHA1 }

// Package returns the package owning the archive
func (a *Archive) Package() Package { return a.pkg }

// LocalPath returns the install directory of a local archive
func (a *Archive) LocalPath() string { return a.localPath }

// IsLocal reports whether the archive is already installed
func (a *Archive) IsLocal() bool { return a.localPath != "" }

// IsCompatible reports whether the archive can be installed on the running host
func (a *Archive) IsCompatible() bool {
	return a.os.IsCompatible() && a.arch.IsCompatible()
}

// CompatibleWith reports whether the archive can be installed on host
func (a *Archive) CompatibleWith(host platform.Host) bool {
	return host.Supports(a.os, a.arch)
}

// OsDescription returns "any OS", "unknown OS" or the OS and architecture names
func (a *Archive) OsDescription() string {
	var os string
	switch a.os {
	case platform.OsUnknown:
		os = "unknown OS"
	case platform.OsAny:
		os = "any OS"
	default:
		os = a.os.UiName()
	}

	if a.arch == platform.ArchAny || a.arch == platform.ArchUnknown {
		return os
	}
	return os + " " + a.arch.UiName()
}

// ShortDescription returns a one-line description of the archive
func (a *Archive) ShortDescription() string {
	return fmt.Sprintf("Archive for %s", a.OsDescription())
}

// LongDescription adds the size and checksum to ShortDescription
func (a *Archive) LongDescription() string {
	return fmt.Sprintf("%s\nSize: %d MiB\nSHA1: %s",
		a.ShortDescription(), a.size/(1024*1024), a.checksum)
}

func (a *Archive) String() string {
	return a.ShortDescription()
}

// SaveProperties writes the archive's capability fields into a record.
// The URL and checksum are remote-only and never persisted.
func (a *Archive) SaveProperties(r *Record) {
	r.Set(propArchiveOs, a.os.RecordName())
	r.Set(propArchiveArch, a.arch.RecordName())
}

// DeleteLocal removes the install directory of a local archive
func (a *Archive) DeleteLocal(h *utils.OsHelper) {
	if a.IsLocal() {
		h.DeleteRecursive(a.localPath)
	}
}
