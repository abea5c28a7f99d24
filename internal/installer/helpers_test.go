package installer

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/testutil"
	"github.com/ralt/sdkpkg/internal/utils"
)

var linuxHost = platform.Host{Os: platform.OsLinux, Arch: platform.ArchX86_64}

type fakeManager struct {
	root    string
	targets []sdk.Target
}

func (m *fakeManager) Location() string      { return m.root }
func (m *fakeManager) Targets() []sdk.Target { return m.targets }
func (m *fakeManager) ParseAddonProperties(string) (map[string]string, string) {
	return nil, "File not found: manifest.ini"
}

// repo serves archive payloads under /repository and counts requests
type repo struct {
	*httptest.Server
	files map[string][]byte
	hits  atomic.Int32
}

func newRepo(t *testing.T, files map[string][]byte) *repo {
	t.Helper()
	r := &repo{files: files}
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		data, ok := r.files[req.URL.Path]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(r.Close)
	return r
}

// sourceURL is the repository descriptor relative archive URLs resolve against
func (r *repo) sourceURL() string {
	return r.URL + "/repository/repository.xml"
}

func toolsZip(t *testing.T) []byte {
	return testutil.ZipBytes(t,
		testutil.Entry{Name: "tools_r12-linux/"},
		testutil.Entry{Name: "tools_r12-linux/android", Body: "#!/bin/sh\n", Mode: 0755},
		testutil.Entry{Name: "tools_r12-linux/emulator", Body: "ELF", Mode: 0755},
		testutil.Entry{Name: "tools_r12-linux/lib/sdklib.jar", Body: "jar"},
	)
}

func sha1Hex(data []byte) string {
	h := utils.NewSHA1()
	h.Write(data)
	return utils.HexDigest(h)
}

// toolArchive declares data as the linux archive of tools revision 12
func toolArchive(source string, data []byte) *sdk.Archive {
	pkg := sdk.NewToolPackage(sdk.Info{Revision: 12, SourceURL: source}, sdk.NotSpecified, []sdk.RemoteArchive{{
		Os:       platform.OsLinux,
		Arch:     platform.ArchX86_64,
		URL:      "tools_r12-linux.zip",
		Size:     int64(len(data)),
		Checksum: sha1Hex(data),
	}})
	return pkg.Archives()[0]
}
