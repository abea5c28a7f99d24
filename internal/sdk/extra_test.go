package sdk

import (
	"path/filepath"
	"testing"

	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extra(vendor, path string) *ExtraPackage {
	return NewExtraPackage(Info{Revision: 1}, vendor, path, NotSpecified, NotSpecified, nil)
}

func TestExtraSameItemAs(t *testing.T) {
	tests := []struct {
		name string
		a, b *ExtraPackage
		want bool
	}{
		{"same vendor and path", extra("android", "support"), extra("android", "support"), true},
		{"different path", extra("android", "support"), extra("android", "usb_driver"), false},
		{"different vendor", extra("android", "support"), extra("google", "support"), false},
		{"no vendors", extra("", "support"), extra("", "support"), true},
		{"legacy vendor-path without vendor", extra("android", "support"), extra("", "android-support"), true},
		{"legacy vendor-path upgraded in place", extra("android", "support"), extra("android", "android-support"), true},
		{"legacy with other vendor", extra("android", "support"), extra("google", "android-support"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SameItemAs(tt.b))
			assert.Equal(t, tt.want, tt.b.SameItemAs(tt.a), "identity is symmetric")
		})
	}

	assert.False(t, extra("android", "tools").SameItemAs(NewToolPackage(Info{}, 0, nil)))
}

func TestExtraShortDescription(t *testing.T) {
	tests := []struct {
		vendor, path string
		want         string
	}{
		{"android", "compatibility", "Android Compatibility package, revision 1"},
		{"google", "usb_driver", "Google USB Driver package, revision 1"},
		{"google", "google-market_licensing", "Google Market Licensing package, revision 1"},
		{"google", "market_apk_expansion", "Google Market Apk Expansion package, revision 1"},
		{"", "", "Unknown Extra package, revision 1"},
		{"acme", "the_usb_api_kit", "Acme The USB API Kit package, revision 1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, extra(tt.vendor, tt.path).ShortDescription())
		})
	}
}

func TestExtraSanitizedNames(t *testing.T) {
	e := extra("Acme Corp!", "my tool")
	assert.Equal(t, "Acme_Corp_", e.Vendor())
	assert.Equal(t, "my_tool", e.Path())

	e = extra("___", "!!")
	assert.Equal(t, "vendor0000005f", e.Vendor())
	assert.Equal(t, "extra0000005f", e.Path())
}

func TestExtraPathValidity(t *testing.T) {
	assert.True(t, extra("android", "support").IsPathValid())
	assert.True(t, extra("", "support").IsPathValid())
	assert.False(t, extra("android", "tools").IsPathValid())
	assert.False(t, extra("temp", "support").IsPathValid())
	assert.False(t, extra("android", "a/b").IsPathValid())
	assert.False(t, extra(`a\b`, "support").IsPathValid())

	bad := extra("android", "platforms")
	assert.Equal(t, "platforms is not a valid install path.", bad.InvalidReason())
	assert.Empty(t, extra("android", "support").InvalidReason())
}

func TestLocalExtraInvalidPathIsBroken(t *testing.T) {
	r := NewRecord()
	r.Set("Extra.Vendor", "android")
	r.Set("Pkg.Desc", "A misplaced extra")

	pkg := LocalExtraPackage(r, filepath.Join(t.TempDir(), "extras", "android", "docs"), testHost)
	require.Equal(t, KindBroken, pkg.Kind())
	assert.Contains(t, pkg.ShortDescription(), "[*]")
	assert.Equal(t, "Invalid install path docs", pkg.InvalidReason())
}

func TestExtraInstallFolder(t *testing.T) {
	root := t.TempDir()

	e := extra("android", "support")
	assert.Equal(t, filepath.Join(root, "extras", "android", "support"), e.InstallFolder(root, "", nil, nil))

	noVendor := extra("", "support")
	assert.Equal(t, filepath.Join(root, "extras", "support"), noVendor.InstallFolder(root, "", nil, nil))

	// an extra installed under the old vendor-path layout is upgraded in place
	legacyDir := filepath.Join(root, "extras", "android-support")
	require.NoError(t, utils.EnsureDir(legacyDir))
	installed := LocalExtraPackage(nil, legacyDir, testHost)
	assert.Equal(t, legacyDir, e.InstallFolder(root, "", nil, []Package{installed}))
}

func TestExtraLongDescription(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "extras", "android", "support")
	require.NoError(t, utils.EnsureDir(dir))

	r := NewRecord()
	r.Set("Extra.Vendor", "android")
	r.Set("Pkg.Revision", "3")
	r.Set("Pkg.Desc", "")
	r.Set("Extra.MinApiLevel", "4")
	pkg := LocalExtraPackage(r, dir, testHost)

	long := pkg.LongDescription()
	assert.Contains(t, long, "Extra support package by android")
	assert.Contains(t, long, "Revision 3")
	assert.Contains(t, long, "Requires SDK Platform Android API 4")
	assert.Contains(t, long, "Location: "+dir)
}
