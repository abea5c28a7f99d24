package sdk

import (
	"errors"
	"fmt"

	"github.com/ralt/sdkpkg/internal/platform"
)

// ErrNoKind is returned when a record does not say which kind it belongs to
var ErrNoKind = errors.New("missing " + propKind)

// FromRecord rebuilds the local package described by the record stored in
// dir, using the Pkg.Kind discriminant. host fills in the archive platform
// when the record carries none.
func FromRecord(r *Record, dir string, host platform.Host) (Package, error) {
	if r == nil {
		return nil, fmt.Errorf("no install record in %s", dir)
	}

	s, ok := r.Get(propKind)
	if !ok {
		return nil, ErrNoKind
	}
	kind, ok := ParseKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown %s %q", propKind, s)
	}

	switch kind {
	case KindTool:
		return LocalToolPackage(r, dir, host), nil
	case KindPlatformTool:
		return LocalPlatformToolPackage(r, dir, host), nil
	case KindDoc:
		return LocalDocPackage(r, dir, host), nil
	case KindPlatform:
		version, err := LoadAndroidVersion(r)
		if err != nil {
			return nil, err
		}
		return PlatformFromTarget(Target{Location: dir, Version: version, Platform: true}, r), nil
	case KindAddon:
		version, err := LoadAndroidVersion(r)
		if err != nil {
			return nil, err
		}
		return AddonFromTarget(Target{Location: dir, Version: version}, r), nil
	case KindSample:
		return LocalSamplePackage(r, dir)
	case KindExtra:
		return LocalExtraPackage(r, dir, host), nil
	default:
		return NewBrokenPackage(r, fmt.Sprintf("Broken package in %s", dir),
			"Broken package: recorded as broken", NotSpecified, APILevelInvalid, dir), nil
	}
}
