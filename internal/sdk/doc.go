package sdk

import (
	"fmt"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/platform"
)

// DocPackage is the documentation package installed in <sdk>/docs
type DocPackage struct {
	basePackage
	version AndroidVersion
}

// NewDocPackage creates a remote documentation package
func NewDocPackage(info Info, version AndroidVersion, archives []RemoteArchive) *DocPackage {
	p := &DocPackage{version: version}
	p.initRemote(p, info, archives)
	return p
}

// LocalDocPackage creates the documentation package installed in dir
func LocalDocPackage(r *Record, dir string, host platform.Host) *DocPackage {
	p := &DocPackage{version: loadAndroidVersionOr(r, AndroidVersion{})}
	p.initLocal(p, r, Info{}, host.Os, host.Arch, dir)
	return p
}

func (p *DocPackage) Kind() Kind { return KindDoc }

// Version returns the API the documentation covers
func (p *DocPackage) Version() AndroidVersion { return p.version }

func (p *DocPackage) ShortDescription() string {
	if p.version.IsPreview() {
		return fmt.Sprintf("Documentation for Android '%s' Preview SDK, revision %d%s",
			p.version.Codename, p.Revision(), p.obsoleteSuffix())
	}
	return fmt.Sprintf("Documentation for Android SDK, API %d, revision %d%s",
		p.version.APILevel, p.Revision(), p.obsoleteSuffix())
}

func (p *DocPackage) LongDescription() string {
	return p.longDescription(p.ShortDescription(), true)
}

func (p *DocPackage) InstallFolder(sdkRoot, _ string, _ Manager, _ []Package) string {
	return filepath.Join(sdkRoot, DirDocs)
}

// SameItemAs is true for any doc package: there is only one docs directory
func (p *DocPackage) SameItemAs(other Package) bool {
	_, ok := other.(*DocPackage)
	return ok
}

// canBeUpdatedBy lets docs for a newer API replace older ones regardless
// of revision
func (p *DocPackage) canBeUpdatedBy(other Package) UpdateInfo {
	od, ok := other.(*DocPackage)
	if !ok {
		return Incompatible
	}
	if c := od.version.Compare(p.version); c > 0 {
		return Update
	} else if c == 0 && od.Revision() > p.Revision() {
		return Update
	}
	return NotUpdate
}

func (p *DocPackage) SaveProperties(r *Record) {
	p.saveProperties(KindDoc, r)
	p.version.SaveProperties(r)
}
