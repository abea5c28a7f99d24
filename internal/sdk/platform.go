package sdk

import (
	"fmt"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/platform"
)

const propPlatformVersion = "Platform.Version"

// PlatformPackage is an SDK platform installed under <sdk>/platforms
type PlatformPackage struct {
	basePackage
	version     AndroidVersion
	versionName string
	minToolsRev int
}

// NewPlatformPackage creates a remote platform package
func NewPlatformPackage(info Info, version AndroidVersion, versionName string, minToolsRev int, archives []RemoteArchive) *PlatformPackage {
	p := &PlatformPackage{version: version, versionName: versionName, minToolsRev: minToolsRev}
	p.initRemote(p, info, archives)
	return p
}

// PlatformFromTarget creates the package of an installed platform target.
// r is the record found in the target's directory and may be nil.
func PlatformFromTarget(t Target, r *Record) *PlatformPackage {
	p := &PlatformPackage{
		version:     t.Version,
		versionName: r.GetString(propPlatformVersion, t.VersionName),
		minToolsRev: r.GetInt(propMinToolsRev, NotSpecified),
	}
	p.initLocal(p, r, Info{Revision: t.Revision, Description: t.Name}, platform.OsAny, platform.ArchAny, t.Location)
	return p
}

func (p *PlatformPackage) Kind() Kind { return KindPlatform }

// Version returns the platform's API version
func (p *PlatformPackage) Version() AndroidVersion { return p.version }

// VersionName returns the user-facing release name, e.g. "2.3"
func (p *PlatformPackage) VersionName() string { return p.versionName }

// MinToolsRevision returns the tools revision the platform needs, or NotSpecified
func (p *PlatformPackage) MinToolsRevision() int { return p.minToolsRev }

func (p *PlatformPackage) ShortDescription() string {
	if p.version.IsPreview() {
		return fmt.Sprintf("SDK Platform Android %s Preview, revision %d%s",
			p.versionName, p.Revision(), p.obsoleteSuffix())
	}
	return fmt.Sprintf("SDK Platform Android %s, API %d, revision %d%s",
		p.versionName, p.version.APILevel, p.Revision(), p.obsoleteSuffix())
}

func (p *PlatformPackage) LongDescription() string {
	s := p.longDescription(p.ShortDescription(), true)
	if p.minToolsRev != NotSpecified {
		s += fmt.Sprintf("\nRequires tools revision %d", p.minToolsRev)
	}
	return s
}

// InstallFolder reuses the directory of an installed platform with the same
// version, else picks platforms/android-<api>[_n]
func (p *PlatformPackage) InstallFolder(sdkRoot, _ string, mgr Manager, _ []Package) string {
	if mgr != nil {
		for _, t := range mgr.Targets() {
			if t.Platform && t.Version.Equal(p.version) {
				return t.Location
			}
		}
	}
	return nextFreeDir(filepath.Join(sdkRoot, DirPlatforms), "android-"+p.version.APIString())
}

// SameItemAs compares the API version
func (p *PlatformPackage) SameItemAs(other Package) bool {
	op, ok := other.(*PlatformPackage)
	return ok && op.version.Equal(p.version)
}

func (p *PlatformPackage) SaveProperties(r *Record) {
	p.saveProperties(KindPlatform, r)
	p.version.SaveProperties(r)
	if p.versionName != "" {
		r.Set(propPlatformVersion, p.versionName)
	}
	if p.minToolsRev != NotSpecified {
		r.SetInt(propMinToolsRev, p.minToolsRev)
	}
}
