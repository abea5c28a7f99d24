package testutil

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Entry is one file or directory of a test archive. Names ending in "/"
// are directories. A tar entry with a Link is a symlink to it.
type Entry struct {
	Name string
	Body string
	Mode os.FileMode
	Link string
}

// ZipBytes builds a zip archive in memory. Entries carry Unix modes so
// executable bits survive.
func ZipBytes(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		mode := e.Mode
		if mode == 0 {
			mode = 0644
		}
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if isDir(e.Name) {
			mode |= os.ModeDir | 0111
		}
		hdr.SetMode(mode)

		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if !isDir(e.Name) {
			_, err = w.Write([]byte(e.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// TarBytes builds a tarball compressed with "gz", "xz", "zst" or "" for none
func TarBytes(t testing.TB, compression string, entries ...Entry) []byte {
	t.Helper()

	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	for _, e := range entries {
		mode := e.Mode
		if mode == 0 {
			mode = 0644
		}
		hdr := &tar.Header{Name: e.Name, Mode: int64(mode.Perm()), Typeflag: tar.TypeReg, Size: int64(len(e.Body))}
		switch {
		case isDir(e.Name):
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
			hdr.Size = 0
		case e.Link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Link
			hdr.Mode = 0777
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())

	var out bytes.Buffer
	switch compression {
	case "gz":
		w := gzip.NewWriter(&out)
		_, err := w.Write(raw.Bytes())
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "xz":
		w, err := xz.NewWriter(&out)
		require.NoError(t, err)
		_, err = w.Write(raw.Bytes())
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "zst":
		w, err := zstd.NewWriter(&out)
		require.NoError(t, err)
		_, err = w.Write(raw.Bytes())
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		return raw.Bytes()
	}
	return out.Bytes()
}

// WriteArchive writes archive bytes to path, creating its directory
func WriteArchive(t testing.TB, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func isDir(name string) bool {
	return len(name) > 0 && name[len(name)-1] == '/'
}
