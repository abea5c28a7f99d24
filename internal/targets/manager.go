package targets

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

// ManifestFileName describes an add-on
const ManifestFileName = "manifest.ini"

// FileManager is the package manager view of an SDK built by reading the
// platforms and add-ons directories
type FileManager struct {
	root    string
	targets []sdk.Target
}

// NewFileManager creates a new FileManager and loads the targets under root
func NewFileManager(root string) (*FileManager, error) {
	m := &FileManager{root: root}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Location returns the SDK root
func (m *FileManager) Location() string {
	return m.root
}

// Targets returns the platforms first, then the add-ons
func (m *FileManager) Targets() []sdk.Target {
	return m.targets
}

// Reload rescans the SDK, typically after an install changed it
func (m *FileManager) Reload() error {
	platforms, err := m.loadPlatforms()
	if err != nil {
		return err
	}
	m.targets = platforms
	m.linkSamples()

	addons, err := m.loadAddons()
	if err != nil {
		return err
	}
	m.targets = append(m.targets, addons...)

	logrus.Debugf("Loaded %d targets from %s", len(m.targets), m.root)
	return nil
}

func (m *FileManager) loadPlatforms() ([]sdk.Target, error) {
	dirs, err := utils.ListDirs(filepath.Join(m.root, sdk.DirPlatforms))
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}

	var targets []sdk.Target
	for _, dir := range dirs {
		r, err := sdk.ParseRecordDir(dir)
		if err != nil {
			logrus.Warnf("Ignoring platform %s: %v", dir, err)
			continue
		}

		version, err := sdk.LoadAndroidVersion(r)
		if err != nil {
			// the directory name still carries the API level
			level, convErr := strconv.Atoi(strings.TrimPrefix(filepath.Base(dir), "android-"))
			if convErr != nil {
				logrus.Warnf("Ignoring platform %s: %v", dir, err)
				continue
			}
			version = sdk.AndroidVersion{APILevel: level}
		}

		versionName := r.GetString("Platform.Version", version.APIString())
		targets = append(targets, sdk.Target{
			Name:        "Android " + versionName,
			Vendor:      "Android Open Source Project",
			Location:    dir,
			Version:     version,
			VersionName: versionName,
			Platform:    true,
			Revision:    r.GetInt("Pkg.Revision", 1),
			SamplesPath: filepath.Join(dir, sdk.DirSamples),
		})
		logrus.Debugf("Found platform %s at %s", version, dir)
	}
	return targets, nil
}

// linkSamples points each platform at the directory under the samples root
// whose record has the platform's version
func (m *FileManager) linkSamples() {
	dirs, err := utils.ListDirs(filepath.Join(m.root, sdk.DirSamples))
	if err != nil {
		logrus.Warnf("Failed to list samples: %v", err)
		return
	}

	for _, dir := range dirs {
		r, err := sdk.ParseRecordDir(dir)
		if err != nil || r == nil {
			continue
		}
		version, err := sdk.LoadAndroidVersion(r)
		if err != nil {
			continue
		}
		for i := range m.targets {
			if m.targets[i].Version.Equal(version) {
				m.targets[i].SamplesPath = dir
			}
		}
	}
}

func (m *FileManager) loadAddons() ([]sdk.Target, error) {
	dirs, err := utils.ListDirs(filepath.Join(m.root, sdk.DirAddons))
	if err != nil {
		return nil, fmt.Errorf("failed to list add-ons: %w", err)
	}

	var targets []sdk.Target
	for _, dir := range dirs {
		props, errString := m.ParseAddonProperties(dir)
		if errString != "" {
			logrus.Warnf("Ignoring add-on %s: %s", dir, errString)
			continue
		}

		level, _ := strconv.Atoi(props[sdk.ManifestAPI])
		revision, err := strconv.Atoi(props["revision"])
		if err != nil {
			revision = 1
		}
		targets = append(targets, sdk.Target{
			Name:        props[sdk.ManifestName],
			Vendor:      props[sdk.ManifestVendor],
			Location:    dir,
			Version:     sdk.AndroidVersion{APILevel: level},
			VersionName: props[sdk.ManifestAPI],
			Revision:    revision,
			SamplesPath: filepath.Join(dir, sdk.DirSamples),
		})
		logrus.Debugf("Found add-on %s at %s", props[sdk.ManifestName], dir)
	}
	return targets, nil
}

// ParseAddonProperties reads an add-on manifest. The error string is empty
// when the add-on is usable: every required key is set and its base
// platform is installed.
func (m *FileManager) ParseAddonProperties(dir string) (map[string]string, string) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("File not found: %s", ManifestFileName)
	}

	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(data)
	if err != nil {
		return nil, fmt.Sprintf("Failed to parse %s: %v", ManifestFileName, err)
	}
	props := p.Map()

	for _, key := range []string{sdk.ManifestName, sdk.ManifestVendor, sdk.ManifestAPI} {
		if props[key] == "" {
			return props, fmt.Sprintf("'%s' is missing from %s", key, ManifestFileName)
		}
	}

	level, err := strconv.Atoi(props[sdk.ManifestAPI])
	if err != nil {
		return props, fmt.Sprintf("Invalid API level '%s' in %s", props[sdk.ManifestAPI], ManifestFileName)
	}
	for _, t := range m.targets {
		if t.Platform && t.Version.APILevel == level && !t.Version.IsPreview() {
			return props, ""
		}
	}
	return props, fmt.Sprintf("Unable to find base platform with API level '%d'", level)
}
