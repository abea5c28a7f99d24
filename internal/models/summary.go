package models

// PackageSummary is the flat rendering of an installed package used by
// the list and show commands
type PackageSummary struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Revision    int    `json:"revision"`
	Os          string `json:"os,omitempty"`
	Arch        string `json:"arch,omitempty"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
	License     string `json:"license,omitempty"`
	Obsolete    bool   `json:"obsolete,omitempty"`
	Broken      string `json:"broken,omitempty"`

	// Kind-specific fields
	Metadata map[string]string `json:"metadata,omitempty"`
}
