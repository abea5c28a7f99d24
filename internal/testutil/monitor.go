package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingMonitor records every call made by an install and answers
// cancellation and retry questions from scripted values
type RecordingMonitor struct {
	mu sync.Mutex

	Descriptions []string
	Results      []string
	Progress     int
	RetryPrompts []string

	// CancelAfter makes IsCancelRequested return true from its Nth call on.
	// Zero never cancels.
	CancelAfter int
	cancelPolls int

	// RetryAnswers are returned by successive ConfirmRetry calls; once
	// exhausted ConfirmRetry returns false
	RetryAnswers []bool
}

func (m *RecordingMonitor) SetDescription(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Descriptions = append(m.Descriptions, fmt.Sprintf(format, args...))
}

func (m *RecordingMonitor) SetResult(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results = append(m.Results, fmt.Sprintf(format, args...))
}

func (m *RecordingMonitor) IncProgress(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Progress += delta
}

func (m *RecordingMonitor) IsCancelRequested() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPolls++
	return m.CancelAfter > 0 && m.cancelPolls >= m.CancelAfter
}

func (m *RecordingMonitor) ConfirmRetry(title, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetryPrompts = append(m.RetryPrompts, title+": "+message)
	if len(m.RetryAnswers) == 0 {
		return false
	}
	answer := m.RetryAnswers[0]
	m.RetryAnswers = m.RetryAnswers[1:]
	return answer
}

// HasResult reports whether any result contains substr
func (m *RecordingMonitor) HasResult(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Results {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

// LastResult returns the most recent result, or ""
func (m *RecordingMonitor) LastResult() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Results) == 0 {
		return ""
	}
	return m.Results[len(m.Results)-1]
}
