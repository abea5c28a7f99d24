package report

import (
	"strconv"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/sdk"
)

// Summarize flattens a package for display
func Summarize(pkg sdk.Package) models.PackageSummary {
	s := models.PackageSummary{
		Kind:        pkg.Kind().String(),
		Name:        pkg.ShortDescription(),
		Revision:    pkg.Revision(),
		Description: pkg.Description(),
		License:     pkg.License(),
		Obsolete:    pkg.Obsolete(),
		Broken:      pkg.InvalidReason(),
		Metadata:    map[string]string{},
	}
	if archives := pkg.Archives(); len(archives) > 0 {
		s.Os = archives[0].Os().String()
		s.Arch = archives[0].Arch().String()
		s.Path = archives[0].LocalPath()
	}

	setInt := func(key string, v int) {
		if v != sdk.NotSpecified {
			s.Metadata[key] = strconv.Itoa(v)
		}
	}
	setVersion := func(v sdk.AndroidVersion) {
		s.Metadata["api"] = v.APIString()
		if v.Codename != "" {
			s.Metadata["codename"] = v.Codename
		}
	}

	switch p := pkg.(type) {
	case *sdk.ToolPackage:
		setInt("min_platform_tools_rev", p.MinPlatformToolsRevision())
	case *sdk.DocPackage:
		setVersion(p.Version())
	case *sdk.PlatformPackage:
		setVersion(p.Version())
		s.Metadata["version"] = p.VersionName()
		setInt("min_tools_rev", p.MinToolsRevision())
	case *sdk.AddonPackage:
		setVersion(p.Version())
		s.Metadata["vendor"] = p.Vendor()
		s.Metadata["name"] = p.Name()
	case *sdk.SamplePackage:
		setVersion(p.Version())
		setInt("min_api_level", p.MinAPILevel())
		setInt("min_tools_rev", p.MinToolsRevision())
	case *sdk.ExtraPackage:
		s.Metadata["vendor"] = p.Vendor()
		s.Metadata["path"] = p.Path()
		setInt("min_api_level", p.MinAPILevel())
		setInt("min_tools_rev", p.MinToolsRevision())
	case *sdk.BrokenPackage:
		if p.ExactAPILevel() != sdk.APILevelInvalid {
			s.Metadata["api"] = strconv.Itoa(p.ExactAPILevel())
		}
	}

	if len(s.Metadata) == 0 {
		s.Metadata = nil
	}
	return s
}

// SummarizeAll flattens every package, keeping their order
func SummarizeAll(pkgs []sdk.Package) []models.PackageSummary {
	out := make([]models.PackageSummary, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, Summarize(p))
	}
	return out
}
