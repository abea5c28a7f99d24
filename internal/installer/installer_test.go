package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/testutil"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallTools(t *testing.T) {
	data := toolsZip(t)
	srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
	root := t.TempDir()
	a := toolArchive(srv.sourceURL(), data)
	mon := &testutil.RecordingMonitor{}

	local, ok := New(WithHost(linuxHost)).InstallLocal(context.Background(), a, root, false, &fakeManager{root: root}, mon)
	require.True(t, ok, mon.Results)

	dest := filepath.Join(root, "tools")
	assert.True(t, utils.IsFile(filepath.Join(dest, "lib", "sdklib.jar")))
	assert.Equal(t, "Installed Android SDK Tools, revision 12", mon.LastResult())
	assert.False(t, mon.HasResult("Warning"))
	assert.Positive(t, mon.Progress)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dest, "android"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0111)
	}

	r, err := sdk.ParseRecordDir(dest)
	require.NoError(t, err)
	assert.Equal(t, 12, r.GetInt("Pkg.Revision", 0))
	assert.Equal(t, "tool", r.GetString("Pkg.Kind", ""))
	assert.Equal(t, "LINUX", r.GetString("Archive.Os", ""))

	require.NotNil(t, local)
	assert.True(t, local.IsLocal())
	assert.Equal(t, dest, local.LocalPath())
	assert.Equal(t, sdk.KindTool, local.Package().Kind())
	assert.Equal(t, 12, local.Package().Revision())

	// the download and the scratch directories are gone
	entries, err := os.ReadDir(filepath.Join(root, sdk.DirTemp))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInstallIncompatibleArchiveMakesNoRequest(t *testing.T) {
	srv := newRepo(t, nil)
	root := t.TempDir()
	pkg := sdk.NewToolPackage(sdk.Info{Revision: 1, SourceURL: srv.sourceURL()}, sdk.NotSpecified, []sdk.RemoteArchive{{
		Os:       platform.OsLinux,
		Arch:     platform.ArchX86_64,
		URL:      "foo.zip",
		Size:     1024,
		Checksum: "d41d8cd98f00b204e9800998ecf8427e",
	}})
	mon := &testutil.RecordingMonitor{}
	mac := platform.Host{Os: platform.OsMacOSX, Arch: platform.ArchX86_64}

	ok := New(WithHost(mac)).Install(context.Background(), pkg.Archives()[0], root, false, &fakeManager{root: root}, mon)

	assert.False(t, ok)
	assert.Zero(t, srv.hits.Load())
	assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp)))
	assert.Equal(t, "Skipping incompatible archive: Android SDK Tools, revision 1 for Linux x86_64", mon.LastResult())
}

func TestInstallRejectsCorruptDownload(t *testing.T) {
	data := toolsZip(t)

	tests := []struct {
		name    string
		served  func([]byte) []byte
		message string
	}{
		{
			name: "checksum",
			served: func(b []byte) []byte {
				c := append([]byte(nil), b...)
				c[len(c)/2] ^= 0xff
				return c
			},
			message: "Download finished with wrong checksum",
		},
		{
			name:    "size",
			served:  func(b []byte) []byte { return b[:len(b)-1] },
			message: "Download finished with wrong size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": tt.served(data)})
			root := t.TempDir()
			mon := &testutil.RecordingMonitor{}

			ok := New(WithHost(linuxHost)).Install(context.Background(), toolArchive(srv.sourceURL(), data),
				root, false, &fakeManager{root: root}, mon)

			assert.False(t, ok)
			assert.True(t, mon.HasResult(tt.message), mon.Results)
			assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "tools_r12-linux.zip")))
			assert.False(t, utils.Exists(filepath.Join(root, "tools")))
		})
	}
}

func TestInstallFailedSwapKeepsDestination(t *testing.T) {
	data := toolsZip(t)
	srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
	root := t.TempDir()
	dest := filepath.Join(root, "tools")
	require.NoError(t, utils.WriteFile(filepath.Join(dest, "old.txt"), []byte("v1"), 0644))

	helper := utils.NewOsHelper(linuxHost, utils.WithRenameFunc(func(string, string) error {
		return errors.New("directory in use")
	}))
	mon := &testutil.RecordingMonitor{}

	ok := New(WithHost(linuxHost), WithOsHelper(helper)).Install(context.Background(),
		toolArchive(srv.sourceURL(), data), root, false, &fakeManager{root: root}, mon)

	assert.False(t, ok)
	assert.Len(t, mon.RetryPrompts, 1)
	assert.True(t, mon.HasResult("Failed to rename directory "+dest))

	content, err := os.ReadFile(filepath.Join(dest, "old.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))
	assert.False(t, utils.Exists(filepath.Join(dest, "android")))

	// the scratch directories are cleaned up but the download is kept
	assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "tool.new01")))
	assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "tool.old01")))
	assert.True(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "tools_r12-linux.zip")))
}

func TestInstallRetriesBlockedRename(t *testing.T) {
	data := toolsZip(t)
	srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
	root := t.TempDir()
	dest := filepath.Join(root, "tools")
	require.NoError(t, utils.WriteFile(filepath.Join(dest, "old.txt"), []byte("v1"), 0644))

	failures := 1
	helper := utils.NewOsHelper(linuxHost, utils.WithRenameFunc(func(from, to string) error {
		if failures > 0 {
			failures--
			return errors.New("directory in use")
		}
		return os.Rename(from, to)
	}))
	mon := &testutil.RecordingMonitor{RetryAnswers: []bool{true}}

	ok := New(WithHost(linuxHost), WithOsHelper(helper)).Install(context.Background(),
		toolArchive(srv.sourceURL(), data), root, false, &fakeManager{root: root}, mon)

	require.True(t, ok, mon.Results)
	require.Len(t, mon.RetryPrompts, 1)
	assert.Contains(t, mon.RetryPrompts[0], dest)
	assert.NotContains(t, mon.RetryPrompts[0], "anti-virus")
	assert.False(t, utils.Exists(filepath.Join(dest, "old.txt")))
	assert.True(t, utils.IsFile(filepath.Join(dest, "android")))
	assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "tool.old01")))
}

func TestInstallStrandedOldDirectory(t *testing.T) {
	data := toolsZip(t)
	srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
	root := t.TempDir()
	dest := filepath.Join(root, "tools")
	require.NoError(t, utils.WriteFile(filepath.Join(dest, "old.txt"), []byte("v1"), 0644))

	helper := utils.NewOsHelper(linuxHost, utils.WithRenameFunc(func(from, to string) error {
		if from == dest {
			return os.Rename(from, to)
		}
		return errors.New("directory in use")
	}))
	mon := &testutil.RecordingMonitor{}

	ok := New(WithHost(linuxHost), WithOsHelper(helper)).Install(context.Background(),
		toolArchive(srv.sourceURL(), data), root, false, &fakeManager{root: root}, mon)

	assert.False(t, ok)
	assert.False(t, utils.Exists(dest), "the destination is left absent")
}

func TestInstallTwiceShortCircuits(t *testing.T) {
	data := toolsZip(t)
	srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
	root := t.TempDir()
	a := toolArchive(srv.sourceURL(), data)
	inst := New(WithHost(linuxHost))
	mgr := &fakeManager{root: root}

	local, ok := inst.InstallLocal(context.Background(), a, root, false, mgr, &testutil.RecordingMonitor{})
	require.True(t, ok)
	require.EqualValues(t, 1, srv.hits.Load())

	mon := &testutil.RecordingMonitor{}
	assert.False(t, inst.Install(context.Background(), local, root, false, mgr, mon))
	assert.EqualValues(t, 1, srv.hits.Load())
	assert.True(t, mon.HasResult("Skipping already installed archive: Android SDK Tools, revision 12"))
}

func TestInstallReusesPreviousDownload(t *testing.T) {
	data := toolsZip(t)

	t.Run("complete", func(t *testing.T) {
		srv := newRepo(t, nil)
		root := t.TempDir()
		testutil.WriteArchive(t, filepath.Join(root, sdk.DirTemp, "tools_r12-linux.zip"), data)

		ok := New(WithHost(linuxHost)).Install(context.Background(), toolArchive(srv.sourceURL(), data),
			root, false, &fakeManager{root: root}, &testutil.RecordingMonitor{})
		assert.True(t, ok)
		assert.Zero(t, srv.hits.Load())
	})

	t.Run("stale", func(t *testing.T) {
		srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
		root := t.TempDir()
		testutil.WriteArchive(t, filepath.Join(root, sdk.DirTemp, "tools_r12-linux.zip"), []byte("partial"))

		ok := New(WithHost(linuxHost)).Install(context.Background(), toolArchive(srv.sourceURL(), data),
			root, false, &fakeManager{root: root}, &testutil.RecordingMonitor{})
		assert.True(t, ok)
		assert.EqualValues(t, 1, srv.hits.Load())
	})
}

func TestInstallCancelled(t *testing.T) {
	data := toolsZip(t)

	t.Run("download", func(t *testing.T) {
		srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
		root := t.TempDir()
		mon := &testutil.RecordingMonitor{CancelAfter: 1}

		ok := New(WithHost(linuxHost)).Install(context.Background(), toolArchive(srv.sourceURL(), data),
			root, false, &fakeManager{root: root}, mon)

		assert.False(t, ok)
		assert.True(t, mon.HasResult("Download aborted by user"), mon.Results)
		assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "tools_r12-linux.zip")))
	})

	t.Run("unpack", func(t *testing.T) {
		srv := newRepo(t, nil)
		root := t.TempDir()
		testutil.WriteArchive(t, filepath.Join(root, sdk.DirTemp, "tools_r12-linux.zip"), data)
		mon := &testutil.RecordingMonitor{CancelAfter: 1}

		ok := New(WithHost(linuxHost)).Install(context.Background(), toolArchive(srv.sourceURL(), data),
			root, false, &fakeManager{root: root}, mon)

		assert.False(t, ok)
		assert.True(t, mon.HasResult("aborted by user"), mon.Results)
		assert.False(t, utils.Exists(filepath.Join(root, "tools")))
		entries, err := os.ReadDir(filepath.Join(root, sdk.DirTemp))
		require.NoError(t, err)
		assert.Empty(t, entries, "download and scratch directory are removed")
	})

	t.Run("context", func(t *testing.T) {
		srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
		root := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ok := New(WithHost(linuxHost)).Install(ctx, toolArchive(srv.sourceURL(), data),
			root, false, &fakeManager{root: root}, &testutil.RecordingMonitor{})
		assert.False(t, ok)
		assert.False(t, utils.Exists(filepath.Join(root, "tools")))
	})
}

func TestInstallPreconditions(t *testing.T) {
	root := t.TempDir()
	archives := []sdk.RemoteArchive{{Os: platform.OsAny, Arch: platform.ArchAny, URL: "x.zip", Size: 1}}

	t.Run("invalid extra path", func(t *testing.T) {
		pkg := sdk.NewExtraPackage(sdk.Info{Revision: 1}, "acme", "a/b", sdk.NotSpecified, sdk.NotSpecified, archives)
		mon := &testutil.RecordingMonitor{}
		assert.False(t, New(WithHost(linuxHost)).Install(context.Background(), pkg.Archives()[0], root, false, nil, mon))
		assert.Contains(t, mon.LastResult(), "is not a valid install path.")
		assert.Contains(t, mon.LastResult(), "Skipping ")
	})

	t.Run("local archive", func(t *testing.T) {
		pkg := sdk.LocalPlatformToolPackage(nil, filepath.Join(root, "platform-tools"), linuxHost)
		mon := &testutil.RecordingMonitor{}
		assert.False(t, New(WithHost(linuxHost)).Install(context.Background(), pkg.Archives()[0], root, false, nil, mon))
		assert.Contains(t, mon.LastResult(), "Skipping already installed archive")
	})

	t.Run("no source", func(t *testing.T) {
		pkg := sdk.NewPlatformToolPackage(sdk.Info{Revision: 1}, archives)
		mon := &testutil.RecordingMonitor{}
		assert.False(t, New(WithHost(linuxHost)).Install(context.Background(), pkg.Archives()[0], root, false, nil, mon))
		assert.Equal(t, "Internal error: no source for archive Android SDK Platform-tools, revision 1", mon.LastResult())
	})
}

func TestInstallExtraCreatesVendorDirectory(t *testing.T) {
	data := testutil.ZipBytes(t,
		testutil.Entry{Name: "usb_driver/android_winusb.inf", Body: "inf"},
	)
	srv := newRepo(t, map[string][]byte{"/repository/usb_driver_r4.zip": data})
	root := t.TempDir()
	pkg := sdk.NewExtraPackage(sdk.Info{Revision: 4, SourceURL: srv.sourceURL()}, "google", "usb_driver",
		sdk.NotSpecified, sdk.NotSpecified, []sdk.RemoteArchive{{
			Os: platform.OsAny, Arch: platform.ArchAny, URL: "usb_driver_r4.zip",
			Size: int64(len(data)), Checksum: sha1Hex(data),
		}})

	ok := New(WithHost(linuxHost)).Install(context.Background(), pkg.Archives()[0], root, false,
		&fakeManager{root: root}, &testutil.RecordingMonitor{})
	require.True(t, ok)

	dest := filepath.Join(root, "extras", "google", "usb_driver")
	assert.True(t, utils.IsFile(filepath.Join(dest, "android_winusb.inf")))
	r, err := sdk.ParseRecordDir(dest)
	require.NoError(t, err)
	assert.Equal(t, "google", r.GetString("Extra.Vendor", ""))
	assert.Equal(t, "usb_driver", r.GetString("Extra.Path", ""))
}

func TestInstallPreInstallHookVeto(t *testing.T) {
	data := testutil.ZipBytes(t, testutil.Entry{Name: "samples/ApiDemos/AndroidManifest.xml", Body: "<manifest/>"})
	srv := newRepo(t, map[string][]byte{"/repository/samples-8.zip": data})
	root := t.TempDir()
	pkg := sdk.NewSamplePackage(sdk.Info{Revision: 1, SourceURL: srv.sourceURL()}, sdk.AndroidVersion{APILevel: 8},
		8, sdk.NotSpecified, []sdk.RemoteArchive{{
			Os: platform.OsAny, Arch: platform.ArchAny, URL: "samples-8.zip",
			Size: int64(len(data)), Checksum: sha1Hex(data),
		}})
	mon := &testutil.RecordingMonitor{}

	ok := New(WithHost(linuxHost)).Install(context.Background(), pkg.Archives()[0], root, false,
		&fakeManager{root: root}, mon)

	assert.False(t, ok)
	assert.True(t, mon.HasResult("requires SDK Platform Android API 8 or later"))
	assert.Equal(t, "Skipping archive: "+pkg.ShortDescription(), mon.LastResult())
	assert.False(t, utils.Exists(filepath.Join(root, "samples")))
	assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "sample.new01")))
}

// panicManager fails the way a buggy package manager would
type panicManager struct{ fakeManager }

func (m *panicManager) Targets() []sdk.Target { panic("target list unavailable") }

func TestInstallRecoversPanics(t *testing.T) {
	data := testutil.ZipBytes(t, testutil.Entry{Name: "android-8/build.prop", Body: "ro.build.version.sdk=8"})
	srv := newRepo(t, map[string][]byte{"/repository/android-8.zip": data})
	root := t.TempDir()
	pkg := sdk.NewPlatformPackage(sdk.Info{Revision: 1, SourceURL: srv.sourceURL()}, sdk.AndroidVersion{APILevel: 8},
		"2.2", sdk.NotSpecified, []sdk.RemoteArchive{{
			Os: platform.OsAny, Arch: platform.ArchAny, URL: "android-8.zip",
			Size: int64(len(data)), Checksum: sha1Hex(data),
		}})
	mon := &testutil.RecordingMonitor{}

	var ok bool
	assert.NotPanics(t, func() {
		ok = New(WithHost(linuxHost)).Install(context.Background(), pkg.Archives()[0], root, false,
			&panicManager{fakeManager{root: root}}, mon)
	})
	assert.False(t, ok)
	assert.Contains(t, mon.LastResult(), "target list unavailable")
	assert.False(t, utils.Exists(filepath.Join(root, sdk.DirTemp, "platform.new01")))
}

func TestInstallLeavesRemoteArchiveRemote(t *testing.T) {
	data := toolsZip(t)
	srv := newRepo(t, map[string][]byte{"/repository/tools_r12-linux.zip": data})
	root := t.TempDir()
	a := toolArchive(srv.sourceURL(), data)

	local, ok := New(WithHost(linuxHost)).InstallLocal(context.Background(), a, root, false,
		&fakeManager{root: root}, &testutil.RecordingMonitor{})
	require.True(t, ok)

	// the remote archive and its package are unchanged
	assert.False(t, a.IsLocal())
	assert.Empty(t, a.LocalPath())
	assert.Equal(t, "tools_r12-linux.zip", a.URL())
	assert.Same(t, a, a.Package().Archives()[0])
	assert.False(t, a.Package().Archives()[0].IsLocal())

	// the local archive carries no remote fields
	require.NotNil(t, local)
	assert.NotSame(t, a, local)
	assert.True(t, local.IsLocal())
	assert.Empty(t, local.URL())
	assert.Zero(t, local.Size())
	assert.Empty(t, local.Checksum())
	assert.Equal(t, platform.OsLinux, local.Os())
	assert.Equal(t, platform.ArchX86_64, local.Arch())

	// the same remote archive can be installed again
	mon := &testutil.RecordingMonitor{}
	assert.True(t, New(WithHost(linuxHost)).Install(context.Background(), a, root, false, &fakeManager{root: root}, mon), mon.Results)
}
