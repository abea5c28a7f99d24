package monitor

// Monitor receives progress from a long-running install and answers the
// few questions the installer has to ask. Implementations are only used
// from the installing goroutine.
type Monitor interface {
	// SetDescription updates the one-line status of the current step
	SetDescription(format string, args ...any)

	// SetResult records a message the user should see once the step ends
	SetResult(format string, args ...any)

	// IncProgress advances the progress bar by delta ticks
	IncProgress(delta int)

	// IsCancelRequested is polled once per chunk or archive entry
	IsCancelRequested() bool

	// ConfirmRetry asks whether a failed directory rename should be retried
	ConfirmRetry(title, message string) bool
}

// NullMonitor discards everything and never retries
type NullMonitor struct{}

func (NullMonitor) SetDescription(string, ...any) {}

func (NullMonitor) SetResult(string, ...any) {}

func (NullMonitor) IncProgress(int) {}

func (NullMonitor) IsCancelRequested() bool { return false }

func (NullMonitor) ConfirmRetry(string, string) bool { return false }
