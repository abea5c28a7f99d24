package sdk

import (
	"fmt"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/utils"
)

const propSampleMinAPILevel = "Sample.MinApiLevel"

// SamplePackage holds the samples of one API level, installed in
// <sdk>/samples/android-<api>
type SamplePackage struct {
	basePackage
	version     AndroidVersion
	minAPILevel int
	minToolsRev int
}

// NewSamplePackage creates a remote samples package
func NewSamplePackage(info Info, version AndroidVersion, minAPILevel, minToolsRev int, archives []RemoteArchive) *SamplePackage {
	p := &SamplePackage{version: version, minAPILevel: minAPILevel, minToolsRev: minToolsRev}
	p.initRemote(p, info, archives)
	return p
}

// SampleFromTarget creates the samples package of a platform target
func SampleFromTarget(t Target, r *Record) *SamplePackage {
	p := &SamplePackage{
		version:     t.Version,
		minAPILevel: r.GetInt(propSampleMinAPILevel, NotSpecified),
		minToolsRev: r.GetInt(propMinToolsRev, NotSpecified),
	}
	p.initLocal(p, r, Info{}, platform.OsAny, platform.ArchAny, t.SamplesPath)
	return p
}

// LocalSamplePackage creates the samples package installed in dir. The
// record must carry the API version.
func LocalSamplePackage(r *Record, dir string) (*SamplePackage, error) {
	version, err := LoadAndroidVersion(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples in %s: %w", dir, err)
	}
	p := &SamplePackage{
		version:     version,
		minAPILevel: r.GetInt(propSampleMinAPILevel, NotSpecified),
		minToolsRev: r.GetInt(propMinToolsRev, NotSpecified),
	}
	p.initLocal(p, r, Info{}, platform.OsAny, platform.ArchAny, dir)
	return p, nil
}

func (p *SamplePackage) Kind() Kind { return KindSample }

// Version returns the API version of the samples
func (p *SamplePackage) Version() AndroidVersion { return p.version }

// MinAPILevel returns the API level the samples need, or NotSpecified
func (p *SamplePackage) MinAPILevel() int { return p.minAPILevel }

// MinToolsRevision returns the tools revision the samples need, or NotSpecified
func (p *SamplePackage) MinToolsRevision() int { return p.minToolsRev }

func (p *SamplePackage) ShortDescription() string {
	preview := ""
	if p.version.IsPreview() {
		preview = " Preview"
	}
	return fmt.Sprintf("Samples for SDK API %s%s, revision %d%s",
		p.version.APIString(), preview, p.Revision(), p.obsoleteSuffix())
}

func (p *SamplePackage) LongDescription() string {
	s := p.longDescription(p.ShortDescription(), false)
	if p.minAPILevel != NotSpecified {
		s += fmt.Sprintf("\nRequires SDK Platform Android API %d", p.minAPILevel)
	}
	return s
}

// InstallFolder reuses the samples directory of the installed platform with
// the same version, then that of installed samples of the same version, else
// picks samples/android-<api>[_n]
func (p *SamplePackage) InstallFolder(sdkRoot, _ string, mgr Manager, installed []Package) string {
	if mgr != nil {
		for _, t := range mgr.Targets() {
			if t.Platform && t.Version.Equal(p.version) && utils.IsDir(t.SamplesPath) {
				return t.SamplesPath
			}
		}
	}
	for _, pkg := range installed {
		sp, ok := pkg.(*SamplePackage)
		if !ok || !p.SameItemAs(sp) {
			continue
		}
		if dir := sp.localPath(); dir != "" {
			return dir
		}
	}
	return nextFreeDir(filepath.Join(sdkRoot, DirSamples), fmt.Sprintf("android-%d", p.version.APILevel))
}

// SameItemAs compares the API version
func (p *SamplePackage) SameItemAs(other Package) bool {
	sp, ok := other.(*SamplePackage)
	return ok && sp.version.Equal(p.version)
}

// PreInstallHook refuses samples whose minimum API level no installed
// platform satisfies
func (p *SamplePackage) PreInstallHook(_ *Archive, mon monitor.Monitor, mgr Manager, _ string) bool {
	if p.minAPILevel == NotSpecified || mgr == nil {
		return true
	}
	for _, t := range mgr.Targets() {
		if t.Platform && t.Version.APILevel >= p.minAPILevel {
			return true
		}
	}
	mon.SetResult("%s requires SDK Platform Android API %d or later to be installed",
		p.ShortDescription(), p.minAPILevel)
	return false
}

func (p *SamplePackage) SaveProperties(r *Record) {
	p.saveProperties(KindSample, r)
	p.version.SaveProperties(r)
	if p.minAPILevel != NotSpecified {
		r.SetInt(propSampleMinAPILevel, p.minAPILevel)
	}
	if p.minToolsRev != NotSpecified {
		r.SetInt(propMinToolsRev, p.minToolsRev)
	}
}
