package extract

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

func extractZip(archivePath, destDir string, opts Options) (*Result, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer zr.Close()

	res := &Result{}
	var consumed int64

	for _, f := range zr.File {
		root, rel, ok := entryPath(f.Name)
		if !ok {
			logrus.Debugf("Skipping zip entry %s outside the root directory", f.Name)
			continue
		}
		if res.RootName == "" {
			res.RootName = root
		}

		dest, err := target(destDir, rel)
		if err != nil {
			return nil, err
		}
		consumed += int64(f.CompressedSize64)

		if strings.HasSuffix(rel, "/") || f.FileInfo().IsDir() {
			if err := utils.EnsureDir(dest); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dest, err)
			}
			if err := opts.finishEntry("", 0, consumed); err != nil {
				return nil, err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		err = writeFile(dest, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		res.Files++

		if err := opts.finishEntry(dest, f.Mode(), consumed); err != nil {
			return nil, err
		}
	}

	return res, nil
}
