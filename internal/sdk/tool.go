package sdk

import (
	"fmt"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/utils"
)

const propMinPlatformToolsRev = "Platform.MinPlatformToolsRev"

// ToolPackage is the SDK tools package installed in <sdk>/tools
type ToolPackage struct {
	basePackage
	minPlatformToolsRev int
}

// NewToolPackage creates a remote tools package
func NewToolPackage(info Info, minPlatformToolsRev int, archives []RemoteArchive) *ToolPackage {
	p := &ToolPackage{minPlatformToolsRev: minPlatformToolsRev}
	p.initRemote(p, info, archives)
	return p
}

// LocalToolPackage creates the tools package installed in dir. r may be nil.
func LocalToolPackage(r *Record, dir string, host platform.Host) *ToolPackage {
	p := &ToolPackage{
		minPlatformToolsRev: r.GetInt(propMinPlatformToolsRev, NotSpecified),
	}
	p.initLocal(p, r, Info{Description: "Tools"}, host.Os, host.Arch, dir)
	return p
}

func (p *ToolPackage) Kind() Kind { return KindTool }

// MinPlatformToolsRevision returns the platform-tools revision the tools
// need, or NotSpecified
func (p *ToolPackage) MinPlatformToolsRevision() int {
	return p.minPlatformToolsRev
}

func (p *ToolPackage) ShortDescription() string {
	return fmt.Sprintf("Android SDK Tools, revision %d%s", p.Revision(), p.obsoleteSuffix())
}

func (p *ToolPackage) LongDescription() string {
	s := p.longDescription(p.ShortDescription(), true)
	if p.minPlatformToolsRev != NotSpecified {
		s += fmt.Sprintf("\nRequires SDK Platform-tools revision %d", p.minPlatformToolsRev)
	}
	return s
}

func (p *ToolPackage) InstallFolder(sdkRoot, _ string, _ Manager, _ []Package) string {
	return filepath.Join(sdkRoot, DirTools)
}

// SameItemAs is true for any tools package: there is only one
func (p *ToolPackage) SameItemAs(other Package) bool {
	_, ok := other.(*ToolPackage)
	return ok
}

// PostInstallHook warns when the freshly installed tools lack the command
// line driver a later scan relies on to recognize them
func (p *ToolPackage) PostInstallHook(a *Archive, mon monitor.Monitor, installDir string) {
	if installDir == "" {
		return
	}
	host := platform.Host{Os: a.Os(), Arch: a.Arch()}
	if a.Os() == platform.OsAny {
		host = platform.CurrentHost()
	}
	name := AndroidCmdName(host)
	if !utils.IsFile(filepath.Join(installDir, name)) {
		mon.SetResult("Warning: %s does not contain %s", installDir, name)
	}
}

func (p *ToolPackage) SaveProperties(r *Record) {
	p.saveProperties(KindTool, r)
	if p.minPlatformToolsRev != NotSpecified {
		r.SetInt(propMinPlatformToolsRev, p.minPlatformToolsRev)
	}
}
