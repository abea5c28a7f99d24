package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/sirupsen/logrus"
)

// LogMonitor renders install progress through logrus and answers retry
// questions according to a RetryPolicy
type LogMonitor struct {
	log *logrus.Entry
	ctx context.Context

	policy     string
	maxRetries int
	retries    int

	in  *bufio.Reader
	out io.Writer

	progress int
	results  []string
}

// Option configures a LogMonitor
type Option func(*LogMonitor)

// WithRetryPolicy sets how blocked renames are handled. maxRetries only
// applies to the "always" policy.
func WithRetryPolicy(policy string, maxRetries int) Option {
	return func(m *LogMonitor) {
		m.policy = policy
		m.maxRetries = maxRetries
	}
}

// WithPrompt sets where the "prompt" policy reads answers and writes questions
func WithPrompt(in io.Reader, out io.Writer) Option {
	return func(m *LogMonitor) {
		m.in = bufio.NewReader(in)
		m.out = out
	}
}

// WithContext makes cancellation of ctx visible to IsCancelRequested
func WithContext(ctx context.Context) Option {
	return func(m *LogMonitor) { m.ctx = ctx }
}

// NewLogMonitor creates a new LogMonitor logging under the given component name
func NewLogMonitor(component string, opts ...Option) *LogMonitor {
	m := &LogMonitor{
		log:    logrus.WithField("component", component),
		ctx:    context.Background(),
		policy: models.RetryNever,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stderr,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidRetryPolicy returns true for the policies LogMonitor understands
func ValidRetryPolicy(policy string) bool {
	switch policy {
	case models.RetryNever, models.RetryAlways, models.RetryPrompt:
		return true
	default:
		return false
	}
}

// SetDescription logs the current step at debug level
func (m *LogMonitor) SetDescription(format string, args ...any) {
	m.log.Debugf(format, args...)
}

// SetResult logs a user-facing message
func (m *LogMonitor) SetResult(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.results = append(m.results, msg)
	m.log.Info(msg)
}

// IncProgress advances the tick counter
func (m *LogMonitor) IncProgress(delta int) {
	m.progress += delta
}

// Progress returns the ticks accumulated so far
func (m *LogMonitor) Progress() int {
	return m.progress
}

// Results returns every message passed to SetResult
func (m *LogMonitor) Results() []string {
	return m.results
}

// IsCancelRequested reports whether the monitor's context is done
func (m *LogMonitor) IsCancelRequested() bool {
	return m.ctx.Err() != nil
}

// ConfirmRetry applies the retry policy
func (m *LogMonitor) ConfirmRetry(title, message string) bool {
	m.log.Warnf("%s: %s", title, message)

	switch m.policy {
	case models.RetryAlways:
		if m.retries >= m.maxRetries {
			m.log.Warnf("Giving up after %d retries", m.retries)
			return false
		}
		m.retries++
		m.log.Infof("Retrying (%d/%d)", m.retries, m.maxRetries)
		return true

	case models.RetryPrompt:
		fmt.Fprintf(m.out, "%s\n%s\nTry again? [y/N] ", title, message)
		answer, err := m.in.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"

	default:
		return false
	}
}
