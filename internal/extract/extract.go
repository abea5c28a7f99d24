package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/utils"
)

// Options controls an extraction
type Options struct {
	// UnixPerms restores executable bits recorded in the archive
	UnixPerms bool

	// SetExecutable is called for every extracted file whose stored mode has
	// an executable bit, when UnixPerms is set
	SetExecutable func(path string) error

	// TotalSize is the compressed size progress is measured against. The
	// archive file size is used when zero.
	TotalSize int64

	// Progress receives the compressed bytes consumed so far after each entry
	Progress func(consumed, total int64)

	// Cancelled is polled once per entry
	Cancelled func() bool
}

// Result describes a finished extraction
type Result struct {
	// RootName is the top-level directory shared by the archive entries,
	// stripped on extraction
	RootName string
	Files    int
}

// Extract unpacks a zip or tarball into destDir, which must exist. The
// format is chosen from the archive name.
func Extract(archivePath, destDir string, opts Options) (*Result, error) {
	if opts.TotalSize <= 0 {
		info, err := os.Stat(archivePath)
		if err != nil {
			return nil, err
		}
		opts.TotalSize = info.Size()
	}

	if c, ok := utils.TarCompression(archivePath); ok {
		return extractTar(archivePath, c, destDir, opts)
	}
	return extractZip(archivePath, destDir, opts)
}

// entryPath normalizes an archive entry name and strips its top-level
// segment. ok is false for entries that sit at or above the root.
func entryPath(raw string) (root, rel string, ok bool) {
	name := strings.ReplaceAll(raw, `\`, "/")
	for strings.HasPrefix(name, "./") {
		name = name[2:]
	}
	name = strings.TrimLeft(name, "/")

	pos := strings.Index(name, "/")
	if pos <= 0 || pos == len(name)-1 {
		return "", "", false
	}
	return name[:pos], name[pos+1:], true
}

// target returns where rel lands under destDir, refusing paths that escape
// it, either lexically or through a symlink extracted earlier
func target(destDir, rel string) (string, error) {
	dest := filepath.Join(destDir, filepath.FromSlash(rel))
	if !isUnder(filepath.Clean(destDir), dest) {
		return "", fmt.Errorf("illegal path in archive: %s", rel)
	}
	if _, _, err := resolveParent(destDir, dest); err != nil {
		return "", fmt.Errorf("illegal path in archive: %s: %w", rel, err)
	}
	return dest, nil
}

// resolveParent resolves the symlinks in the existing part of dest's parent
// directory and checks the result is still under destDir. It returns the
// resolved destDir and parent.
func resolveParent(destDir, dest string) (root, parent string, err error) {
	root, err = filepath.EvalSymlinks(destDir)
	if err != nil {
		return "", "", err
	}

	dir := filepath.Dir(dest)
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			parent = filepath.Join(append([]string{resolved}, missing...)...)
			break
		}
		if !os.IsNotExist(err) {
			return "", "", err
		}
		up := filepath.Dir(dir)
		if up == dir {
			return "", "", err
		}
		missing = append([]string{filepath.Base(dir)}, missing...)
		dir = up
	}

	if !isUnder(root, parent) {
		return "", "", fmt.Errorf("%s resolves outside %s", filepath.Dir(dest), destDir)
	}
	return root, parent, nil
}

// isUnder reports whether path is dir or below it. Both must be clean.
func isUnder(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(os.PathSeparator))
}

// writeFile streams r into path, creating parent directories
func writeFile(path string, r io.Reader) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// finishEntry applies permissions, reports progress and polls cancellation
func (o *Options) finishEntry(path string, mode os.FileMode, consumed int64) error {
	if path != "" && o.UnixPerms && mode&0111 != 0 && o.SetExecutable != nil {
		if err := o.SetExecutable(path); err != nil {
			return fmt.Errorf("failed to set executable permission on %s: %w", path, err)
		}
	}
	if o.Progress != nil {
		o.Progress(consumed, o.TotalSize)
	}
	if o.Cancelled != nil && o.Cancelled() {
		return models.ErrUserCancelled
	}
	return nil
}
