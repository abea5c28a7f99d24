package extract

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

// countingReader counts the compressed bytes handed to the decompressor
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func extractTar(archivePath string, c utils.Compression, destDir string, opts Options) (*Result, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	counter := &countingReader{r: f}
	dr, err := utils.NewDecompressor(c, counter)
	if err != nil {
		return nil, err
	}
	defer dr.Close()

	res := &Result{}
	tr := tar.NewReader(dr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar: %w", err)
		}

		root, rel, ok := entryPath(hdr.Name)
		if !ok {
			logrus.Debugf("Skipping tar entry %s outside the root directory", hdr.Name)
			continue
		}
		if res.RootName == "" {
			res.RootName = root
		}

		dest, err := target(destDir, rel)
		if err != nil {
			return nil, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := utils.EnsureDir(dest); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dest, err)
			}
			if err := opts.finishEntry("", 0, counter.n); err != nil {
				return nil, err
			}

		case tar.TypeReg:
			if err := writeFile(dest, tr); err != nil {
				return nil, err
			}
			res.Files++
			if err := opts.finishEntry(dest, os.FileMode(hdr.Mode), counter.n); err != nil {
				return nil, err
			}

		case tar.TypeSymlink:
			if !opts.UnixPerms {
				logrus.Debugf("Skipping symlink %s on a host without Unix permissions", hdr.Name)
				continue
			}
			if filepath.IsAbs(hdr.Linkname) {
				return nil, fmt.Errorf("illegal symlink in archive: %s -> %s", hdr.Name, hdr.Linkname)
			}
			if err := utils.EnsureDir(filepath.Dir(dest)); err != nil {
				return nil, err
			}
			// the link target is checked from where the link really sits
			root, parent, err := resolveParent(destDir, dest)
			if err != nil || !isUnder(root, filepath.Join(parent, hdr.Linkname)) {
				return nil, fmt.Errorf("illegal symlink in archive: %s -> %s", hdr.Name, hdr.Linkname)
			}
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return nil, fmt.Errorf("failed to create symlink %s: %w", dest, err)
			}
			if err := opts.finishEntry("", 0, counter.n); err != nil {
				return nil, err
			}

		default:
			logrus.Debugf("Skipping tar entry %s of type %c", hdr.Name, hdr.Typeflag)
		}
	}

	return res, nil
}
