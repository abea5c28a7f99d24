package sdk

import (
	"sort"

	"github.com/ralt/sdkpkg/internal/utils"
)

// Compare totally orders packages: by kind, then newest API first, then by
// name in natural order, then newest revision first
func Compare(a, b Package) int {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}

	va, vb := apiVersion(a), apiVersion(b)
	if c := va.Compare(vb); c != 0 {
		return -c
	}

	if c := utils.NaturalCompare(sortName(a), sortName(b)); c != 0 {
		return c
	}

	if a.Revision() != b.Revision() {
		if a.Revision() > b.Revision() {
			return -1
		}
		return 1
	}

	return utils.NaturalCompare(a.ShortDescription(), b.ShortDescription())
}

// SortPackages sorts packages in place by Compare
func SortPackages(pkgs []Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		return Compare(pkgs[i], pkgs[j]) < 0
	})
}

func apiVersion(p Package) AndroidVersion {
	switch v := p.(type) {
	case *DocPackage:
		return v.version
	case *PlatformPackage:
		return v.version
	case *AddonPackage:
		return v.version
	case *SamplePackage:
		return v.version
	case *BrokenPackage:
		return AndroidVersion{APILevel: v.exactAPILevel}
	default:
		return AndroidVersion{}
	}
}

func sortName(p Package) string {
	switch v := p.(type) {
	case *AddonPackage:
		return v.vendor + " " + v.name
	case *ExtraPackage:
		return v.Vendor() + " " + v.Path()
	case *BrokenPackage:
		return v.shortDesc
	default:
		return ""
	}
}
