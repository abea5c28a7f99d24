package scanner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

// reservedRootDirs are never taken for legacy extras sitting at the SDK root
var reservedRootDirs = map[string]bool{
	sdk.DirTools:         true,
	sdk.DirPlatformTools: true,
	sdk.DirDocs:          true,
	sdk.DirPlatforms:     true,
	sdk.DirAddons:        true,
	sdk.DirSamples:       true,
	sdk.DirExtras:        true,
	sdk.DirTemp:          true,
}

// FileSystemScanner implements Scanner by walking the SDK layout
type FileSystemScanner struct {
	host platform.Host
}

// Option configures a FileSystemScanner
type Option func(*FileSystemScanner)

// WithHost scans as if running on host, which decides the marker
// executables tools directories must contain
func WithHost(host platform.Host) Option {
	return func(s *FileSystemScanner) {
		s.host = host
	}
}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner(opts ...Option) *FileSystemScanner {
	s := &FileSystemScanner{host: platform.CurrentHost()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scan holds the state of one Scan call
type scan struct {
	host    platform.Host
	root    string
	mgr     sdk.Manager
	visited map[string]bool
	inv     *Inventory
}

func (st *scan) seen(dir string) bool {
	return st.visited[filepath.Clean(dir)]
}

func (st *scan) visit(dir string) {
	dir = filepath.Clean(dir)
	if st.visited[dir] {
		return
	}
	st.visited[dir] = true
	st.inv.Visited = append(st.inv.Visited, dir)
}

// claim records pkg as found in dir
func (st *scan) claim(dir string, pkg sdk.Package) {
	logrus.Debugf("Found %s package in %s: %s", pkg.Kind(), dir, pkg.ShortDescription())
	st.inv.Packages = append(st.inv.Packages, pkg)
	st.visit(dir)
}

// Scan rebuilds the inventory of sdkRoot. The result is sorted in package
// order.
func (s *FileSystemScanner) Scan(ctx context.Context, sdkRoot string, mgr sdk.Manager) (*Inventory, error) {
	st := &scan{
		host:    s.host,
		root:    sdkRoot,
		mgr:     mgr,
		visited: make(map[string]bool),
		inv:     &Inventory{},
	}

	steps := []func(){
		st.scanFixed,
		st.scanTargets,
		st.scanMissingAddons,
		st.scanMissingSamples,
		st.scanExtras,
	}
	for _, step := range steps {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to scan SDK: %w", ctx.Err())
		default:
		}
		step()
	}

	sdk.SortPackages(st.inv.Packages)
	logrus.Debugf("Found %d packages in %s", len(st.inv.Packages), sdkRoot)
	return st.inv, nil
}

// scanFixed probes the directories whose location never changes
func (st *scan) scanFixed() {
	probes := []struct {
		dir    string
		detect func(string, platform.Host) sdk.Package
	}{
		{sdk.DirDocs, detectDocs},
		{sdk.DirTools, detectTools},
		{sdk.DirPlatformTools, detectPlatformTools},
	}
	for _, probe := range probes {
		dir := filepath.Join(st.root, probe.dir)
		if pkg := probe.detect(dir, st.host); pkg != nil {
			st.claim(dir, pkg)
		}
	}
}

// scanTargets turns the platforms and add-ons known to the package manager
// into packages, along with the samples of each platform
func (st *scan) scanTargets() {
	if st.mgr == nil {
		return
	}
	samplesRoot := filepath.Clean(filepath.Join(st.root, sdk.DirSamples))

	for _, t := range st.mgr.Targets() {
		r := readRecord(t.Location)

		if !t.Platform {
			st.claim(t.Location, sdk.AddonFromTarget(t, r))
			continue
		}
		st.claim(t.Location, sdk.PlatformFromTarget(t, r))

		// samples nested in the platform directory predate the samples
		// root and are not packages
		if t.SamplesPath == "" || !utils.IsDir(t.SamplesPath) ||
			filepath.Dir(filepath.Clean(t.SamplesPath)) != samplesRoot {
			continue
		}
		if sr := readRecord(t.SamplesPath); sr != nil {
			st.claim(t.SamplesPath, sdk.SampleFromTarget(t, sr))
		} else {
			st.visit(t.SamplesPath)
		}
	}
}

// scanMissingAddons reports the add-on directories the package manager
// could not load as broken packages
func (st *scan) scanMissingAddons() {
	if st.mgr == nil {
		return
	}
	dirs, err := utils.ListDirs(filepath.Join(st.mgr.Location(), sdk.DirAddons))
	if err != nil {
		logrus.Warnf("Failed to list add-ons: %v", err)
		return
	}
	for _, dir := range dirs {
		if st.seen(dir) {
			continue
		}
		manifest, errString := st.mgr.ParseAddonProperties(dir)
		st.claim(dir, sdk.LocalAddonPackage(dir, manifest, errString))
	}
}

// scanMissingSamples picks up sample directories no platform claimed
func (st *scan) scanMissingSamples() {
	dirs, err := utils.ListDirs(filepath.Join(st.root, sdk.DirSamples))
	if err != nil {
		logrus.Warnf("Failed to list samples: %v", err)
		return
	}
	for _, dir := range dirs {
		if st.seen(dir) {
			continue
		}
		r := readRecord(dir)
		if r == nil {
			continue
		}
		pkg, err := sdk.LocalSamplePackage(r, dir)
		if err != nil {
			logrus.Warnf("Ignoring samples in %s: %v", dir, err)
			continue
		}
		st.claim(dir, pkg)
	}
}

// scanExtras picks up extras/<vendor>/<path> directories, then extras
// installed directly under the SDK root by older tools
func (st *scan) scanExtras() {
	vendors, err := utils.ListDirs(filepath.Join(st.root, sdk.DirExtras))
	if err != nil {
		logrus.Warnf("Failed to list extras: %v", err)
	}
	for _, vendor := range vendors {
		st.scanExtrasDir(vendor, nil)
	}
	st.scanExtrasDir(st.root, reservedRootDirs)
}

func (st *scan) scanExtrasDir(parent string, skip map[string]bool) {
	dirs, err := utils.ListDirs(parent)
	if err != nil {
		logrus.Warnf("Failed to list %s: %v", parent, err)
		return
	}
	for _, dir := range dirs {
		if skip[filepath.Base(dir)] || st.seen(dir) {
			continue
		}
		r := readRecord(dir)
		if r == nil {
			continue
		}
		st.claim(dir, sdk.LocalExtraPackage(r, dir, st.host))
	}
}
