package sdk

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ralt/sdkpkg/internal/platform"
)

const (
	propAddonName   = "Addon.Name"
	propAddonVendor = "Addon.Vendor"

	// Keys of an add-on's manifest.ini
	ManifestName   = "name"
	ManifestVendor = "vendor"
	ManifestAPI    = "api"
)

var addonFolderChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// AddonPackage is a vendor add-on installed under <sdk>/add-ons
type AddonPackage struct {
	basePackage
	name    string
	vendor  string
	version AndroidVersion
}

// NewAddonPackage creates a remote add-on package
func NewAddonPackage(info Info, name, vendor string, version AndroidVersion, archives []RemoteArchive) *AddonPackage {
	p := &AddonPackage{name: name, vendor: vendor, version: version}
	p.initRemote(p, info, archives)
	return p
}

// AddonFromTarget creates the package of an installed add-on target
func AddonFromTarget(t Target, r *Record) *AddonPackage {
	p := &AddonPackage{
		name:    r.GetString(propAddonName, t.Name),
		vendor:  r.GetString(propAddonVendor, t.Vendor),
		version: t.Version,
	}
	p.initLocal(p, r, Info{Revision: t.Revision}, platform.OsAny, platform.ArchAny, t.Location)
	return p
}

// LocalAddonPackage creates the package of an add-on directory the package
// manager did not load. A non-empty errString, or a manifest without an
// API level, yields a BrokenPackage.
func LocalAddonPackage(dir string, manifest map[string]string, errString string) Package {
	name := manifest[ManifestName]
	if name == "" {
		name = filepath.Base(dir)
	}
	vendor := manifest[ManifestVendor]
	if vendor == "" {
		vendor = "Unknown"
	}

	api := manifest[ManifestAPI]
	level, convErr := strconv.Atoi(api)
	if errString == "" && convErr != nil {
		errString = fmt.Sprintf("Invalid or missing API level '%s'", api)
	}

	if errString != "" {
		short := fmt.Sprintf("%s, by %s, Android API %s [*]", name, vendor, api)
		long := fmt.Sprintf("Broken Add-On Package: %s\n[*] Package cannot be used due to error: %s",
			short, errString)
		exact := APILevelInvalid
		if convErr == nil {
			exact = level
		}
		return NewBrokenPackage(nil, short, long, NotSpecified, exact, dir)
	}

	p := &AddonPackage{name: name, vendor: vendor, version: AndroidVersion{APILevel: level}}
	p.initLocal(p, nil, Info{}, platform.OsAny, platform.ArchAny, dir)
	return p
}

func (p *AddonPackage) Kind() Kind { return KindAddon }

// Name returns the add-on display name
func (p *AddonPackage) Name() string { return p.name }

// Vendor returns the add-on vendor
func (p *AddonPackage) Vendor() string { return p.vendor }

// Version returns the API version the add-on extends
func (p *AddonPackage) Version() AndroidVersion { return p.version }

func (p *AddonPackage) ShortDescription() string {
	return fmt.Sprintf("%s, by %s, Android API %s, revision %d%s",
		p.name, p.vendor, p.version.APIString(), p.Revision(), p.obsoleteSuffix())
}

func (p *AddonPackage) LongDescription() string {
	return p.longDescription(p.ShortDescription(), true)
}

// InstallFolder reuses the directory of an installed add-on of the same
// item, else picks add-ons/addon-<name>-<vendor>-<api>[_n]
func (p *AddonPackage) InstallFolder(sdkRoot, _ string, mgr Manager, _ []Package) string {
	if mgr != nil {
		for _, t := range mgr.Targets() {
			if !t.Platform && t.Name == p.name && t.Vendor == p.vendor && t.Version.Equal(p.version) {
				return t.Location
			}
		}
	}

	name := fmt.Sprintf("addon-%s-%s-%s", p.name, p.vendor, p.version.APIString())
	name = strings.ToLower(addonFolderChars.ReplaceAllString(name, "_"))
	return nextFreeDir(filepath.Join(sdkRoot, DirAddons), name)
}

// SameItemAs compares name, vendor and API version
func (p *AddonPackage) SameItemAs(other Package) bool {
	oa, ok := other.(*AddonPackage)
	return ok && oa.name == p.name && oa.vendor == p.vendor && oa.version.Equal(p.version)
}

func (p *AddonPackage) SaveProperties(r *Record) {
	p.saveProperties(KindAddon, r)
	p.version.SaveProperties(r)
	r.Set(propAddonName, p.name)
	r.Set(propAddonVendor, p.vendor)
}
