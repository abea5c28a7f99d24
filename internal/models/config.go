package models

import "time"

// Retry policies for a blocked directory rename
const (
	RetryNever  = "never"
	RetryAlways = "always"
	RetryPrompt = "prompt"
)

// InstallConfig contains configuration shared by the sdkpkg commands
type InstallConfig struct {
	// SDK location
	SdkRoot string

	// Download
	ForceHTTP   bool
	HTTPTimeout time.Duration // 0 means reads may block forever

	// Rename retry
	RetryPolicy string
	MaxRetries  int

	Verbose bool
}
