package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/sirupsen/logrus"
)

const (
	// deleteAttempts and deleteBackoff bound the retry loop used on hosts
	// where file indexers and virus scanners hold transient locks
	deleteAttempts = 5
	deleteBackoff  = 100 * time.Millisecond
)

// OsHelper performs the low-level filesystem operations of an install.
// Paths that cannot be deleted right away are queued and removed by Flush.
type OsHelper struct {
	host   platform.Host
	rename func(oldpath, newpath string) error
	remove func(path string) error
	chmod  func(path string, mode os.FileMode) error
	sleep  func(time.Duration)

	mu      sync.Mutex
	pending []string
}

// OsHelperOption configures an OsHelper
type OsHelperOption func(*OsHelper)

// WithRenameFunc replaces os.Rename
func WithRenameFunc(fn func(oldpath, newpath string) error) OsHelperOption {
	return func(h *OsHelper) { h.rename = fn }
}

// WithRemoveFunc replaces os.Remove for leaf deletions
func WithRemoveFunc(fn func(path string) error) OsHelperOption {
	return func(h *OsHelper) { h.remove = fn }
}

// WithChmodFunc replaces os.Chmod
func WithChmodFunc(fn func(path string, mode os.FileMode) error) OsHelperOption {
	return func(h *OsHelper) { h.chmod = fn }
}

// WithSleep replaces time.Sleep between delete attempts
func WithSleep(fn func(time.Duration)) OsHelperOption {
	return func(h *OsHelper) { h.sleep = fn }
}

// NewOsHelper creates a new OsHelper for host
func NewOsHelper(host platform.Host, opts ...OsHelperOption) *OsHelper {
	h := &OsHelper{
		host:   host,
		rename: os.Rename,
		remove: os.Remove,
		chmod:  os.Chmod,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Host returns the host the helper was created for
func (h *OsHelper) Host() platform.Host {
	return h.host
}

// Rename moves a file or directory
func (h *OsHelper) Rename(oldpath, newpath string) error {
	return h.rename(oldpath, newpath)
}

// DeleteRecursive removes path and everything below it. Children are removed
// before their parent. Anything that cannot be removed is queued for Flush.
// An empty or missing path is a no-op.
func (h *OsHelper) DeleteRecursive(path string) {
	if path == "" {
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		return
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			logrus.Debugf("Failed to list %s: %v", path, err)
		}
		for _, e := range entries {
			h.DeleteRecursive(filepath.Join(path, e.Name()))
		}
	}

	if h.deleteLeaf(path) {
		return
	}

	logrus.Debugf("Scheduling %s for deletion on exit", path)
	h.mu.Lock()
	h.pending = append(h.pending, path)
	h.mu.Unlock()
}

func (h *OsHelper) deleteLeaf(path string) bool {
	if !h.host.IsWindows() {
		return h.remove(path) == nil
	}

	for i := 0; i < deleteAttempts; i++ {
		if err := h.remove(path); err == nil || os.IsNotExist(err) {
			return true
		}
		h.sleep(deleteBackoff)
	}
	return false
}

// Pending returns the paths still waiting to be deleted
func (h *OsHelper) Pending() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.pending))
	copy(out, h.pending)
	return out
}

// Flush retries every deferred deletion. Paths that still cannot be removed
// stay queued and are reported in the returned error.
func (h *OsHelper) Flush() error {
	h.mu.Lock()
	paths := h.pending
	h.pending = nil
	h.mu.Unlock()

	var errs []error
	var still []string
	for _, p := range paths {
		if !Exists(p) {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", p, err))
			still = append(still, p)
		}
	}

	if len(still) > 0 {
		h.mu.Lock()
		h.pending = append(h.pending, still...)
		h.mu.Unlock()
	}

	return errors.Join(errs...)
}

// SetExecutable adds the executable bits to a file. It must not be called on
// a host without Unix permissions.
func (h *OsHelper) SetExecutable(path string) error {
	if !h.host.HasUnixPermissions() {
		return fmt.Errorf("cannot set executable permission on %s: host %s has no Unix permissions",
			path, h.host.Os.UiName())
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	return h.chmod(path, info.Mode().Perm()|0111)
}
