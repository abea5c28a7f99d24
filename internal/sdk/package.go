package sdk

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/utils"
)

// NotSpecified marks an optional revision or API level constraint as absent
const NotSpecified = 0

const (
	propKind      = "Pkg.Kind"
	propRevision  = "Pkg.Revision"
	propLicense   = "Pkg.License"
	propDesc      = "Pkg.Desc"
	propDescURL   = "Pkg.DescUrl"
	propSourceURL = "Pkg.SourceUrl"
	propObsolete  = "Pkg.Obsolete"

	propMinToolsRev = "Platform.MinToolsRev"
)

// Top-level SDK directories
const (
	DirTools         = "tools"
	DirPlatformTools = "platform-tools"
	DirDocs          = "docs"
	DirPlatforms     = "platforms"
	DirAddons        = "add-ons"
	DirSamples       = "samples"
	DirExtras        = "extras"
	DirTemp          = "temp"
)

// Info holds the fields common to every package kind
type Info struct {
	Revision    int
	License     string
	Description string
	DescURL     string
	// SourceURL is the URL of the repository the package was listed in.
	// Relative archive URLs resolve against it. Empty for local packages.
	SourceURL string
	Obsolete  bool
}

// Package is one logical installable item. The set of implementations is
// closed: one type per Kind.
type Package interface {
	Kind() Kind
	Revision() int
	License() string
	Description() string
	DescURL() string
	SourceURL() string
	Obsolete() bool

	// Archives returns the archives owned by the package. A local package
	// owns exactly one local archive.
	Archives() []*Archive

	ShortDescription() string
	LongDescription() string

	// InvalidReason is non-empty when the package cannot be installed at all
	InvalidReason() string

	// InstallFolder returns the final directory of the package. installed
	// holds the packages already present in the SDK so an existing directory
	// of the same item can be reused.
	InstallFolder(sdkRoot, suggestedDir string, mgr Manager, installed []Package) string

	// SameItemAs is the logical identity used to decide in-place upgrades
	SameItemAs(other Package) bool

	// PreInstallHook may veto an install before the directory swap
	PreInstallHook(a *Archive, mon monitor.Monitor, mgr Manager, installDir string) bool

	// PostInstallHook runs after every install attempt. installDir is empty
	// when the install failed.
	PostInstallHook(a *Archive, mon monitor.Monitor, installDir string)

	// SaveProperties writes the package fields into an install record
	SaveProperties(r *Record)

	base() *basePackage
}

type basePackage struct {
	info     Info
	archives []*Archive
}

// initRemote sets the common fields of a remote package
func (b *basePackage) initRemote(self Package, info Info, archives []RemoteArchive) {
	b.info = info
	for _, ra := range archives {
		b.archives = append(b.archives, newRemoteArchive(self, ra))
	}
}

// initLocal sets the common fields of a local package. Values in the record
// win over the given defaults.
func (b *basePackage) initLocal(self Package, r *Record, def Info, os platform.Os, arch platform.Arch, dir string) {
	b.info = Info{
		Revision:    r.GetInt(propRevision, def.Revision),
		License:     r.GetString(propLicense, def.License),
		Description: r.GetString(propDesc, def.Description),
		DescURL:     r.GetString(propDescURL, def.DescURL),
		Obsolete:    r.GetBool(propObsolete, def.Obsolete),
	}
	b.archives = []*Archive{newLocalArchive(self, r, os, arch, dir)}
}

func (b *basePackage) base() *basePackage { return b }

func (b *basePackage) Revision() int        { return b.info.Revision }
func (b *basePackage) License() string      { return b.info.License }
func (b *basePackage) Description() string  { return b.info.Description }
func (b *basePackage) DescURL() string      { return b.info.DescURL }
func (b *basePackage) SourceURL() string    { return b.info.SourceURL }
func (b *basePackage) Obsolete() bool       { return b.info.Obsolete }
func (b *basePackage) Archives() []*Archive { return b.archives }
func (b *basePackage) InvalidReason() string {
	return ""
}

func (b *basePackage) PreInstallHook(*Archive, monitor.Monitor, Manager, string) bool {
	return true
}

func (b *basePackage) PostInstallHook(*Archive, monitor.Monitor, string) {}

// saveProperties writes the common fields. Kinds call it first from their
// own SaveProperties.
func (b *basePackage) saveProperties(kind Kind, r *Record) {
	r.Set(propKind, kind.String())
	r.SetInt(propRevision, b.info.Revision)
	if b.info.License != "" {
		r.Set(propLicense, b.info.License)
	}
	if b.info.Description != "" {
		r.Set(propDesc, b.info.Description)
	}
	if b.info.DescURL != "" {
		r.Set(propDescURL, b.info.DescURL)
	}
	if b.info.SourceURL != "" {
		r.Set(propSourceURL, b.info.SourceURL)
	}
	if b.info.Obsolete {
		r.Set(propObsolete, "true")
	}
}

// localPath returns the install directory of a package's single local
// archive, or "" when the package is remote or the directory is gone
func (b *basePackage) localPath() string {
	if len(b.archives) == 1 && b.archives[0].IsLocal() {
		p := b.archives[0].LocalPath()
		if utils.IsDir(p) {
			return p
		}
	}
	return ""
}

// obsoleteSuffix returns " (Obsolete)" for obsolete packages
func (b *basePackage) obsoleteSuffix() string {
	if b.info.Obsolete {
		return " (Obsolete)"
	}
	return ""
}

// longDescription returns the description or fallback, followed by the
// revision when the text does not already mention it
func (b *basePackage) longDescription(fallback string, withObsolete bool) string {
	s := b.info.Description
	if s == "" {
		s = fallback
	}
	if !strings.Contains(s, "revision") {
		s += fmt.Sprintf("\nRevision %d", b.info.Revision)
		if withObsolete {
			s += b.obsoleteSuffix()
		}
	}
	return s
}

// nextFreeDir returns base/name, or base/name_N for the first N>=1 that does
// not exist yet
func nextFreeDir(base, name string) string {
	dir := filepath.Join(base, name)
	for n := 1; utils.Exists(dir); n++ {
		dir = filepath.Join(base, fmt.Sprintf("%s_%d", name, n))
	}
	return dir
}

// SaveRecord builds the complete install record of an archive and its package
func SaveRecord(a *Archive) *Record {
	r := NewRecord()
	a.SaveProperties(r)
	if a.Package() != nil {
		a.Package().SaveProperties(r)
	}
	return r
}
