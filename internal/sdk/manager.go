package sdk

// Target is an installed platform or add-on as seen by the package manager
type Target struct {
	Name        string
	Vendor      string
	Location    string
	Version     AndroidVersion
	VersionName string
	Platform    bool
	Revision    int
	// SamplesPath is where the target's samples live, which is not
	// necessarily under the canonical samples root
	SamplesPath string
}

// Manager is the package manager's view of the SDK being installed into
type Manager interface {
	// Location returns the SDK root
	Location() string

	// Targets returns the platforms and add-ons currently installed
	Targets() []Target

	// ParseAddonProperties reads the manifest of an add-on directory. A
	// non-empty error string means the add-on is unusable.
	ParseAddonProperties(dir string) (map[string]string, string)
}
