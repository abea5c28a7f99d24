package sdk

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ralt/sdkpkg/internal/platform"
)

const (
	propExtraPath        = "Extra.Path"
	propExtraVendor      = "Extra.Vendor"
	propExtraMinAPILevel = "Extra.MinApiLevel"
)

var (
	extraUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	extraSpaces      = regexp.MustCompile(`[ _\t\f-]+`)

	// reservedSegments cannot be used as an extra's vendor or path
	reservedSegments = map[string]bool{
		DirAddons:        true,
		DirPlatforms:     true,
		DirPlatformTools: true,
		DirTools:         true,
		DirDocs:          true,
		DirTemp:          true,
	}
)

// ExtraPackage is a vendor extra installed in <sdk>/extras/<vendor>/<path>
type ExtraPackage struct {
	basePackage
	vendor      string
	path        string
	minAPILevel int
	minToolsRev int
}

// NewExtraPackage creates a remote extra package
func NewExtraPackage(info Info, vendor, path string, minAPILevel, minToolsRev int, archives []RemoteArchive) *ExtraPackage {
	p := &ExtraPackage{vendor: vendor, path: path, minAPILevel: minAPILevel, minToolsRev: minToolsRev}
	p.initRemote(p, info, archives)
	return p
}

// LocalExtraPackage creates the extra installed in dir. The directory name
// is the path; the vendor comes from the record and may be empty for extras
// installed before vendors existed. An extra whose path is not a valid
// install path yields a BrokenPackage.
func LocalExtraPackage(r *Record, dir string, host platform.Host) Package {
	p := &ExtraPackage{
		vendor:      r.GetString(propExtraVendor, ""),
		path:        filepath.Base(dir),
		minAPILevel: r.GetInt(propExtraMinAPILevel, NotSpecified),
		minToolsRev: r.GetInt(propMinToolsRev, NotSpecified),
	}
	p.initLocal(p, r, Info{Description: "Tools"}, host.Os, host.Arch, dir)

	if p.IsPathValid() {
		return p
	}

	short := p.ShortDescription() + " [*]"
	long := fmt.Sprintf("Broken Extra Package: %s\n[*] Package cannot be used due to error: Invalid install path %s",
		p.Description(), p.Path())
	return NewBrokenPackage(r, short, long, p.minAPILevel, APILevelInvalid, dir)
}

func (p *ExtraPackage) Kind() Kind { return KindExtra }

// MinAPILevel returns the API level the extra needs, or NotSpecified
func (p *ExtraPackage) MinAPILevel() int { return p.minAPILevel }

// MinToolsRevision returns the tools revision the extra needs, or NotSpecified
func (p *ExtraPackage) MinToolsRevision() int { return p.minToolsRev }

// RawVendor returns the vendor as declared
func (p *ExtraPackage) RawVendor() string { return p.vendor }

// RawPath returns the path as declared
func (p *ExtraPackage) RawPath() string { return p.path }

// IsPathValid rejects vendors and paths that would escape extras/ or
// collide with a top-level SDK directory
func (p *ExtraPackage) IsPathValid() bool {
	return isSegmentValid(p.vendor) && isSegmentValid(p.path)
}

func isSegmentValid(segment string) bool {
	if reservedSegments[segment] {
		return false
	}
	return !strings.ContainsAny(segment, `/\`)
}

// Path returns the sanitized directory name of the extra
func (p *ExtraPackage) Path() string {
	path := extraUnsafeChars.ReplaceAllString(p.path, "_")
	if path == "" || path == "_" {
		path = fmt.Sprintf("extra%08x", javaHash(path))
	}
	return path
}

// Vendor returns the sanitized vendor directory name, or ""
func (p *ExtraPackage) Vendor() string {
	if p.vendor == "" {
		return ""
	}
	vendor := extraUnsafeChars.ReplaceAllString(p.vendor, "_")
	if vendor == "_" {
		vendor = fmt.Sprintf("vendor%08x", javaHash(vendor))
	}
	return vendor
}

func (p *ExtraPackage) InvalidReason() string {
	if p.IsPathValid() {
		return ""
	}
	return fmt.Sprintf("%s is not a valid install path.", p.Path())
}

// ShortDescription turns vendor and path into a title, e.g.
// "Android Support package, revision 3"
func (p *ExtraPackage) ShortDescription() string {
	name := p.path

	// extras used to be installed as vendor-path, which is what such an
	// extra reports as its path once loaded back from disk
	if p.vendor != "" {
		name = strings.TrimPrefix(name, p.vendor+"-")
	}

	name = strings.TrimSpace(extraSpaces.ReplaceAllString(name, " "))
	if name == "" {
		name = "Unknown Extra"
	}
	if p.vendor != "" {
		name = strings.TrimSpace(extraSpaces.ReplaceAllString(p.vendor+" "+name, " "))
	}

	name = titleWords(name)
	name = strings.ReplaceAll(name, " Usb ", " USB ")
	name = strings.ReplaceAll(name, " Api ", " API ")

	return fmt.Sprintf("%s package, revision %d%s", name, p.Revision(), p.obsoleteSuffix())
}

// titleWords upper-cases the first letter of every word except a trailing
// single-letter one
func titleWords(s string) string {
	chars := []rune(s)
	for i := 0; i < len(chars)-1; i++ {
		if unicode.IsLower(chars[i]) && (i == 0 || chars[i-1] == ' ') {
			chars[i] = unicode.ToUpper(chars[i])
		}
	}
	return string(chars)
}

func (p *ExtraPackage) LongDescription() string {
	s := p.longDescription(fmt.Sprintf("Extra %s package by %s", p.Path(), p.Vendor()), true)
	if p.minToolsRev != NotSpecified {
		s += fmt.Sprintf("\nRequires tools revision %d", p.minToolsRev)
	}
	if p.minAPILevel != NotSpecified {
		s += fmt.Sprintf("\nRequires SDK Platform Android API %d", p.minAPILevel)
	}
	if dir := p.localPath(); dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		s += fmt.Sprintf("\nLocation: %s", dir)
	}
	return s
}

// InstallFolder reuses the directory of an installed extra of the same
// item, else picks extras/<vendor>/<path>
func (p *ExtraPackage) InstallFolder(sdkRoot, _ string, _ Manager, installed []Package) string {
	for _, pkg := range installed {
		ep, ok := pkg.(*ExtraPackage)
		if !ok || !p.SameItemAs(ep) {
			continue
		}
		if dir := ep.localPath(); dir != "" {
			return dir
		}
	}

	dir := filepath.Join(sdkRoot, DirExtras)
	if v := p.Vendor(); v != "" {
		dir = filepath.Join(dir, v)
	}
	return filepath.Join(dir, p.Path())
}

// SameItemAs matches vendor and path. An extra installed under the legacy
// vendor-path directory matches the same extra declared with separate
// vendor and path, in either direction.
func (p *ExtraPackage) SameItemAs(other Package) bool {
	ep, ok := other.(*ExtraPackage)
	if !ok {
		return false
	}

	if p.vendor != "" && ep.path == p.vendor+"-"+p.path &&
		(ep.vendor == "" || ep.vendor == p.vendor) {
		return true
	}
	if ep.vendor != "" && p.path == ep.vendor+"-"+ep.path &&
		(p.vendor == "" || p.vendor == ep.vendor) {
		return true
	}

	return p.path == ep.path && p.vendor == ep.vendor
}

func (p *ExtraPackage) SaveProperties(r *Record) {
	p.saveProperties(KindExtra, r)
	r.Set(propExtraPath, p.path)
	r.Set(propExtraVendor, p.vendor)
	if p.minAPILevel != NotSpecified {
		r.SetInt(propExtraMinAPILevel, p.minAPILevel)
	}
	if p.minToolsRev != NotSpecified {
		r.SetInt(propMinToolsRev, p.minToolsRev)
	}
}

// javaHash is the 31-multiplier string hash used to name unnamed extras
func javaHash(s string) uint32 {
	var h int32
	for _, c := range s {
		h = 31*h + int32(c)
	}
	return uint32(h)
}
