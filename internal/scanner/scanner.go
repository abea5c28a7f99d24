package scanner

import (
	"context"

	"github.com/ralt/sdkpkg/internal/sdk"
)

// Inventory is the set of packages found in an SDK by inspecting its
// directories and install records
type Inventory struct {
	Packages []sdk.Package

	// Visited lists every directory claimed during the scan, in the order it
	// was claimed. A directory appears once.
	Visited []string
}

// Find returns the first package for which match is true
func (inv *Inventory) Find(match func(sdk.Package) bool) sdk.Package {
	if inv == nil {
		return nil
	}
	for _, p := range inv.Packages {
		if match(p) {
			return p
		}
	}
	return nil
}

// Scanner interface for rebuilding the local inventory of an SDK
type Scanner interface {
	// Scan inspects sdkRoot without modifying it. mgr supplies the platforms
	// and add-ons the package manager already knows about.
	Scan(ctx context.Context, sdkRoot string, mgr sdk.Manager) (*Inventory, error)
}
