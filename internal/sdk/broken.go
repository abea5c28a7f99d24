package sdk

import (
	"strings"

	"github.com/ralt/sdkpkg/internal/platform"
)

// APILevelInvalid is the exact API level of a broken package whose level
// could not be determined
const APILevelInvalid = -1

// BrokenPackage stands in for a local package that could be parsed but
// cannot be used. It is never installable.
type BrokenPackage struct {
	basePackage
	shortDesc     string
	longDesc      string
	minAPILevel   int
	exactAPILevel int
}

// NewBrokenPackage creates a placeholder for the package found in dir
func NewBrokenPackage(r *Record, shortDesc, longDesc string, minAPILevel, exactAPILevel int, dir string) *BrokenPackage {
	p := &BrokenPackage{
		shortDesc:     shortDesc,
		longDesc:      longDesc,
		minAPILevel:   minAPILevel,
		exactAPILevel: exactAPILevel,
	}
	p.initLocal(p, r, Info{}, platform.OsAny, platform.ArchAny, dir)
	return p
}

func (p *BrokenPackage) Kind() Kind { return KindBroken }

// ExactAPILevel returns the API level the package was built for, or APILevelInvalid
func (p *BrokenPackage) ExactAPILevel() int { return p.exactAPILevel }

// MinAPILevel returns the API level the package needs, or NotSpecified
func (p *BrokenPackage) MinAPILevel() int { return p.minAPILevel }

func (p *BrokenPackage) ShortDescription() string { return p.shortDesc }

func (p *BrokenPackage) LongDescription() string { return p.longDesc }

// InvalidReason returns the error recorded in the long description
func (p *BrokenPackage) InvalidReason() string {
	if i := strings.Index(p.longDesc, "error: "); i >= 0 {
		return p.longDesc[i+len("error: "):]
	}
	if p.longDesc == "" {
		return "broken package"
	}
	return p.longDesc
}

// InstallFolder is empty: a broken package is never installed
func (p *BrokenPackage) InstallFolder(string, string, Manager, []Package) string {
	return ""
}

func (p *BrokenPackage) SameItemAs(Package) bool { return false }

func (p *BrokenPackage) SaveProperties(r *Record) {
	p.saveProperties(KindBroken, r)
}
