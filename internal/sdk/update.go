package sdk

// UpdateInfo is the result of comparing an installed package with a candidate
type UpdateInfo int

const (
	// Incompatible means the candidate is a different item
	Incompatible UpdateInfo = iota
	// NotUpdate means the candidate is the same item but not newer
	NotUpdate
	// Update means the candidate can replace the installed package
	Update
)

// String returns the string representation of UpdateInfo
func (u UpdateInfo) String() string {
	switch u {
	case NotUpdate:
		return "not-update"
	case Update:
		return "update"
	default:
		return "incompatible"
	}
}

// updater is implemented by kinds with their own update rule
type updater interface {
	canBeUpdatedBy(other Package) UpdateInfo
}

// CanBeUpdatedBy reports whether candidate can replace installed
func CanBeUpdatedBy(installed, candidate Package) UpdateInfo {
	if installed == nil || candidate == nil {
		return Incompatible
	}
	if u, ok := installed.(updater); ok {
		return u.canBeUpdatedBy(candidate)
	}
	if !installed.SameItemAs(candidate) {
		return Incompatible
	}
	if candidate.Revision() > installed.Revision() {
		return Update
	}
	return NotUpdate
}
