package sdk

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	propAPILevel = "AndroidVersion.ApiLevel"
	propCodename = "AndroidVersion.CodeName"
)

// AndroidVersion is an API level, optionally qualified by a preview codename
type AndroidVersion struct {
	APILevel int
	Codename string
}

// ErrNoAPILevel is returned when a record carries no AndroidVersion.ApiLevel
var ErrNoAPILevel = errors.New("missing " + propAPILevel)

// APIString returns the codename for previews and the API level otherwise
func (v AndroidVersion) APIString() string {
	if v.Codename != "" {
		return v.Codename
	}
	return strconv.Itoa(v.APILevel)
}

// IsPreview reports whether the version is a named preview
func (v AndroidVersion) IsPreview() bool {
	return v.Codename != ""
}

// Equal compares the API level and the codename
func (v AndroidVersion) Equal(o AndroidVersion) bool {
	return v.APILevel == o.APILevel && v.Codename == o.Codename
}

// Compare orders by API level. At the same level a preview sorts after
// the release.
func (v AndroidVersion) Compare(o AndroidVersion) int {
	if v.APILevel != o.APILevel {
		if v.APILevel < o.APILevel {
			return -1
		}
		return 1
	}
	switch {
	case v.Codename == o.Codename:
		return 0
	case v.Codename == "":
		return -1
	case o.Codename == "":
		return 1
	case v.Codename < o.Codename:
		return -1
	default:
		return 1
	}
}

func (v AndroidVersion) String() string {
	if v.IsPreview() {
		return fmt.Sprintf("API %d (%s preview)", v.APILevel, v.Codename)
	}
	return fmt.Sprintf("API %d", v.APILevel)
}

// SaveProperties writes the version into a record
func (v AndroidVersion) SaveProperties(r *Record) {
	r.SetInt(propAPILevel, v.APILevel)
	if v.Codename != "" {
		r.Set(propCodename, v.Codename)
	}
}

// LoadAndroidVersion reads the version from a record
func LoadAndroidVersion(r *Record) (AndroidVersion, error) {
	if r == nil {
		return AndroidVersion{}, ErrNoAPILevel
	}
	s, ok := r.Get(propAPILevel)
	if !ok {
		return AndroidVersion{}, ErrNoAPILevel
	}
	level, err := strconv.Atoi(s)
	if err != nil {
		return AndroidVersion{}, fmt.Errorf("invalid %s %q: %w", propAPILevel, s, err)
	}
	return AndroidVersion{APILevel: level, Codename: r.GetString(propCodename, "")}, nil
}

// loadAndroidVersionOr reads the version from a record, falling back to def
func loadAndroidVersionOr(r *Record, def AndroidVersion) AndroidVersion {
	v, err := LoadAndroidVersion(r)
	if err != nil {
		return def
	}
	return v
}
