package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

const downloadBufferSize = 64 * 1024

// resolveURL makes a relative archive URL absolute against the directory of
// the package's source URL
func resolveURL(a *sdk.Archive, forceHTTP bool) (string, error) {
	link := a.URL()
	if !strings.HasPrefix(link, "http://") &&
		!strings.HasPrefix(link, "https://") &&
		!strings.HasPrefix(link, "ftp://") {
		src := a.Package().SourceURL()
		if src == "" {
			return "", errors.New("no source URL")
		}
		link = src[:strings.LastIndex(src, "/")+1] + link
	}

	if forceHTTP {
		link = strings.ReplaceAll(link, "https://", "http://")
	}
	return link, nil
}

// archiveName returns the file name the download of link is stored under
func archiveName(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("no file name in %s", link)
	}
	return name, nil
}

// download fetches the archive into <sdkRoot>/temp, reusing a previous
// download when its size and checksum match
func (i *Installer) download(ctx context.Context, a *sdk.Archive, sdkRoot string, forceHTTP bool, mon monitor.Monitor) (string, error) {
	name := a.Package().ShortDescription()
	desc := fmt.Sprintf("Downloading %s", name)
	mon.SetDescription("%s", desc)
	mon.SetResult("%s", desc)

	link, err := resolveURL(a, forceHTTP)
	if err != nil {
		return "", fail(models.ErrPrecondition, name, err, "Internal error: no source for archive %s", name)
	}
	base, err := archiveName(link)
	if err != nil {
		return "", fail(models.ErrPrecondition, name, err, "Invalid archive URL %s: %v", link, err)
	}

	tmpDir := filepath.Join(sdkRoot, sdk.DirTemp)
	if err := utils.EnsureDir(tmpDir); err != nil {
		return "", fail(models.ErrTransientIO, name, err, "Failed to create directory %s", tmpDir)
	}
	tmpFile := filepath.Join(tmpDir, base)

	if utils.Exists(tmpFile) {
		if i.reusable(tmpFile, a) {
			logrus.Debugf("Reusing previous download %s", tmpFile)
			return tmpFile, nil
		}
		i.os.DeleteRecursive(tmpFile)
	}

	if err := i.fetch(ctx, a, tmpFile, link, desc, mon); err != nil {
		i.os.DeleteRecursive(tmpFile)
		return "", err
	}
	return tmpFile, nil
}

// reusable returns true if path holds the complete archive
func (i *Installer) reusable(path string, a *sdk.Archive) bool {
	digest, size, err := utils.FileSHA1(path)
	if err != nil {
		logrus.Debugf("Failed to checksum %s: %v", path, err)
		return false
	}
	return size == a.Size() && utils.ChecksumEqual(digest, a.Checksum())
}

// fetch streams link into tmpFile and verifies its size and checksum
func (i *Installer) fetch(ctx context.Context, a *sdk.Archive, tmpFile, link, desc string, mon monitor.Monitor) error {
	name := a.Package().ShortDescription()
	logrus.Debugf("Fetching %s", link)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return fail(models.ErrPrecondition, name, err, "Invalid archive URL %s: %v", link, err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fail(models.ErrTransientIO, name, err, "Download failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fail(models.ErrTransientIO, name, nil, "File not found: %s", link)
	}
	if resp.StatusCode != http.StatusOK {
		return fail(models.ErrTransientIO, name, nil, "Download failed: %s returned %s", link, resp.Status)
	}

	f, err := os.Create(tmpFile)
	if err != nil {
		return fail(models.ErrTransientIO, name, err, "Failed to create %s: %v", tmpFile, err)
	}
	defer f.Close()

	digest := utils.NewSHA1()
	progress := newDownloadProgress(mon, desc, a.Size(), i.now)
	buf := make([]byte, downloadBufferSize)
	var total int64

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := f.Write(buf[:n]); err != nil {
				return fail(models.ErrTransientIO, name, err, "Failed to write %s: %v", tmpFile, err)
			}
			digest.Write(buf[:n])
			total += int64(n)
		}
		progress.update(total)

		if cancelled(ctx, mon) {
			return fail(models.ErrCancelled, name, models.ErrUserCancelled,
				"Download aborted by user at %d bytes.", total)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fail(models.ErrTransientIO, name, readErr, "Download failed: %v", readErr)
		}
	}

	if err := f.Close(); err != nil {
		return fail(models.ErrTransientIO, name, err, "Failed to write %s: %v", tmpFile, err)
	}

	if total != a.Size() {
		return fail(models.ErrIntegrity, name, models.ErrSizeMismatch,
			"Download finished with wrong size. Expected %d bytes, got %d bytes.", a.Size(), total)
	}
	actual := utils.HexDigest(digest)
	if !utils.ChecksumEqual(actual, a.Checksum()) {
		return fail(models.ErrIntegrity, name, models.ErrChecksumMismatch,
			"Download finished with wrong checksum. Expected %s, got %s.", a.Checksum(), actual)
	}
	return nil
}
