package cli

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANDROID_SDK_ROOT", "SDKPKG_SDK_ROOT", "SDKPKG_CONFIG", "SDKPKG_RETRY", "SDKPKG_MAX_RETRIES"} {
		t.Setenv(k, "")
	}
}

func probeCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "probe"}
	cmd.Flags().BoolP("verbose", "v", false, "")
	addConfigFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "sdkpkg.toml")
	require.NoError(t, os.WriteFile(path, []byte(`sdk-root = "/from/file"
retry = "always"
max-retries = 5
http-timeout = "30s"
`), 0644))

	config, err := loadConfig(probeCmd(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "/from/file", config.SdkRoot)
	assert.Equal(t, models.RetryAlways, config.RetryPolicy)
	assert.Equal(t, 5, config.MaxRetries)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)

	t.Setenv("SDKPKG_SDK_ROOT", "/from/env")
	config, err = loadConfig(probeCmd(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", config.SdkRoot)

	config, err = loadConfig(probeCmd(t, "--config", path, "--max-retries", "7", "-s", "/from/flag"))
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", config.SdkRoot)
	assert.Equal(t, 7, config.MaxRetries)
	assert.Equal(t, models.RetryAlways, config.RetryPolicy)
}

func TestLoadConfigAndroidSdkRoot(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANDROID_SDK_ROOT", "/opt/android-sdk")

	config, err := loadConfig(probeCmd(t))
	require.NoError(t, err)
	assert.Equal(t, "/opt/android-sdk", config.SdkRoot)
	assert.Equal(t, models.RetryNever, config.RetryPolicy)
	assert.Equal(t, defaultMaxRetries, config.MaxRetries)
}

func TestLoadConfigBadFile(t *testing.T) {
	clearEnv(t)

	_, err := loadConfig(probeCmd(t, "--config", filepath.Join(t.TempDir(), "missing.toml")))
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidConfig, models.Classify(err))
}

func TestValidateConfig(t *testing.T) {
	valid := models.InstallConfig{SdkRoot: "/sdk", RetryPolicy: models.RetryNever}

	tests := []struct {
		name   string
		mutate func(c *models.InstallConfig)
		errMsg string
	}{
		{"valid", func(c *models.InstallConfig) {}, ""},
		{"missing root", func(c *models.InstallConfig) { c.SdkRoot = "" }, "sdk-root is required"},
		{"bad retry", func(c *models.InstallConfig) { c.RetryPolicy = "sometimes" }, "unknown retry policy"},
		{"negative retries", func(c *models.InstallConfig) { c.MaxRetries = -1 }, "max-retries"},
		{"negative timeout", func(c *models.InstallConfig) { c.HTTPTimeout = -time.Second }, "http-timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := validateConfig(&c)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, models.ErrInvalidConfig, models.Classify(err))
		})
	}
}

func TestBuildPackage(t *testing.T) {
	const checksum = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	base := packageOptions{
		Revision: 3,
		URL:      "pkg.zip",
		Size:     10,
		Checksum: checksum,
		Os:       "any",
		Arch:     "any",
	}

	tests := []struct {
		name     string
		mutate   func(o *packageOptions)
		wantKind sdk.Kind
		errMsg   string
	}{
		{"tool", func(o *packageOptions) { o.Kind = "tools" }, sdk.KindTool, ""},
		{"platform-tool", func(o *packageOptions) { o.Kind = "platform-tool" }, sdk.KindPlatformTool, ""},
		{"doc", func(o *packageOptions) { o.Kind = "doc"; o.API = 9 }, sdk.KindDoc, ""},
		{"platform", func(o *packageOptions) { o.Kind = "platform"; o.API = 10; o.VersionName = "2.3.3" }, sdk.KindPlatform, ""},
		{"addon", func(o *packageOptions) {
			o.Kind = "addon"
			o.API = 10
			o.Name = "Google APIs"
			o.Vendor = "Google Inc."
		}, sdk.KindAddon, ""},
		{"sample", func(o *packageOptions) { o.Kind = "sample"; o.API = 10 }, sdk.KindSample, ""},
		{"extra", func(o *packageOptions) { o.Kind = "extra"; o.Vendor = "android"; o.Path = "support" }, sdk.KindExtra, ""},
		{"unknown kind", func(o *packageOptions) { o.Kind = "driver" }, 0, "unknown package kind"},
		{"broken kind", func(o *packageOptions) { o.Kind = "broken" }, 0, "unknown package kind"},
		{"no url", func(o *packageOptions) { o.Kind = "tool"; o.URL = "" }, 0, "url is required"},
		{"no size", func(o *packageOptions) { o.Kind = "tool"; o.Size = 0 }, 0, "size must be positive"},
		{"bad checksum", func(o *packageOptions) { o.Kind = "tool"; o.Checksum = "abc" }, 0, "SHA-1"},
		{"bad os", func(o *packageOptions) { o.Kind = "tool"; o.Os = "beos" }, 0, "unknown os"},
		{"bad arch", func(o *packageOptions) { o.Kind = "tool"; o.Arch = "sparc" }, 0, "unknown arch"},
		{"platform without api", func(o *packageOptions) { o.Kind = "platform" }, 0, "api is required"},
		{"addon without vendor", func(o *packageOptions) { o.Kind = "addon"; o.API = 10; o.Name = "x" }, 0, "name and vendor"},
		{"extra without path", func(o *packageOptions) { o.Kind = "extra" }, 0, "path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			pkg, err := buildPackage(&opts)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, pkg.Kind())
			assert.Equal(t, 3, pkg.Revision())
			require.Len(t, pkg.Archives(), 1)
			assert.False(t, pkg.Archives()[0].IsLocal())
		})
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(nil))
	err := cmd.Execute()
	return out.String(), err
}

func TestInstallListShowUninstall(t *testing.T) {
	clearEnv(t)

	data := testutil.ZipBytes(t,
		testutil.Entry{Name: "tools_r12/"},
		testutil.Entry{Name: "tools_r12/android", Body: "#!/bin/sh\n", Mode: 0755},
		testutil.Entry{Name: "tools_r12/android.bat", Body: "@echo off\r\n"},
		testutil.Entry{Name: "tools_r12/emulator", Body: "ELF", Mode: 0755},
		testutil.Entry{Name: "tools_r12/emulator.exe", Body: "MZ"},
	)
	sum := sha1.Sum(data)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	root := filepath.Join(t.TempDir(), "sdk")
	_, err := run(t, "install", "--sdk-root", root,
		"--kind", "tool", "--revision", "12",
		"--url", srv.URL+"/tools_r12.zip",
		"--size", strconv.Itoa(len(data)),
		"--checksum", hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	toolsDir := filepath.Join(root, "tools")
	assert.FileExists(t, filepath.Join(toolsDir, "emulator"))
	assert.FileExists(t, filepath.Join(toolsDir, sdk.RecordFileName))
	assert.NoFileExists(t, filepath.Join(root, "temp", "tools_r12.zip"))

	out, err := run(t, "list", "--sdk-root", root, "--json")
	require.NoError(t, err)
	var listed []models.PackageSummary
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "tool", listed[0].Kind)
	assert.Equal(t, 12, listed[0].Revision)
	assert.Equal(t, toolsDir, listed[0].Path)

	// Another SDK with a newer tools revision
	other := t.TempDir()
	newer := sdk.NewToolPackage(sdk.Info{Revision: 14}, sdk.NotSpecified, []sdk.RemoteArchive{{}})
	otherTools := filepath.Join(other, "tools")
	require.NoError(t, os.MkdirAll(otherTools, 0755))
	for _, name := range []string{"android", "emulator"} {
		require.NoError(t, os.WriteFile(filepath.Join(otherTools, name), nil, 0755))
	}
	require.NoError(t, sdk.SaveRecord(newer.Archives()[0]).Save(otherTools))

	out, err = run(t, "show", toolsDir, "--updates-from", other, "--json")
	require.NoError(t, err)
	var shown []models.PackageSummary
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	require.Len(t, shown, 1)
	assert.Equal(t, "Android SDK Tools, revision 14", shown[0].Metadata["update.1"])

	out, err = run(t, "show", toolsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Kind: tool\n")
	assert.Contains(t, out, "Revision: 12\n")

	// A second install of the same revision is a no-op
	_, err = run(t, "install", "--sdk-root", root,
		"--kind", "tool", "--revision", "12",
		"--url", srv.URL+"/missing.zip",
		"--size", "1",
		"--checksum", hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	_, err = run(t, "uninstall", toolsDir)
	require.NoError(t, err)
	assert.NoDirExists(t, toolsDir)

	out, err = run(t, "list", "--sdk-root", root, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestShowWithoutRecord(t *testing.T) {
	_, err := run(t, "show", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), sdk.RecordFileName)
}

func TestInstallRequiresSdkRoot(t *testing.T) {
	clearEnv(t)

	_, err := run(t, "install", "--kind", "tool", "--url", "x.zip", "--size", "1",
		"--checksum", "da39a3ee5e6b4b0d3255bfef95601890afd80709")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sdk-root is required")
}
