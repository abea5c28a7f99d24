package sdk

import (
	"fmt"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/platform"
)

// PlatformToolPackage is the platform-tools package installed in
// <sdk>/platform-tools
type PlatformToolPackage struct {
	basePackage
}

// NewPlatformToolPackage creates a remote platform-tools package
func NewPlatformToolPackage(info Info, archives []RemoteArchive) *PlatformToolPackage {
	p := &PlatformToolPackage{}
	p.initRemote(p, info, archives)
	return p
}

// LocalPlatformToolPackage creates the platform-tools package installed in dir
func LocalPlatformToolPackage(r *Record, dir string, host platform.Host) *PlatformToolPackage {
	p := &PlatformToolPackage{}
	p.initLocal(p, r, Info{Description: "Platform Tools"}, host.Os, host.Arch, dir)
	return p
}

func (p *PlatformToolPackage) Kind() Kind { return KindPlatformTool }

func (p *PlatformToolPackage) ShortDescription() string {
	return fmt.Sprintf("Android SDK Platform-tools, revision %d%s", p.Revision(), p.obsoleteSuffix())
}

func (p *PlatformToolPackage) LongDescription() string {
	return p.longDescription(p.ShortDescription(), true)
}

func (p *PlatformToolPackage) InstallFolder(sdkRoot, _ string, _ Manager, _ []Package) string {
	return filepath.Join(sdkRoot, DirPlatformTools)
}

// SameItemAs is true for any platform-tools package: there is only one
func (p *PlatformToolPackage) SameItemAs(other Package) bool {
	_, ok := other.(*PlatformToolPackage)
	return ok
}

func (p *PlatformToolPackage) SaveProperties(r *Record) {
	p.saveProperties(KindPlatformTool, r)
}
