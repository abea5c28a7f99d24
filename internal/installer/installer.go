package installer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ralt/sdkpkg/internal/models"
	"github.com/ralt/sdkpkg/internal/monitor"
	"github.com/ralt/sdkpkg/internal/platform"
	"github.com/ralt/sdkpkg/internal/scanner"
	"github.com/ralt/sdkpkg/internal/sdk"
	"github.com/ralt/sdkpkg/internal/utils"
	"github.com/sirupsen/logrus"
)

// numMonitorInc is the number of progress ticks a download or an unpack
// reports in total
const numMonitorInc = 100

// Installer downloads an archive, unpacks it and swaps it into the SDK.
// Only one install may run at a time for a given SDK root.
type Installer struct {
	client    *http.Client
	host      platform.Host
	os        *utils.OsHelper
	inventory scanner.Scanner
	now       func() time.Time
}

// Option configures an Installer
type Option func(*Installer)

// WithHTTPClient sets the client used for downloads
func WithHTTPClient(c *http.Client) Option {
	return func(i *Installer) { i.client = c }
}

// WithHost installs as if running on host
func WithHost(host platform.Host) Option {
	return func(i *Installer) { i.host = host }
}

// WithOsHelper sets the helper used for renames, deletions and permissions
func WithOsHelper(h *utils.OsHelper) Option {
	return func(i *Installer) { i.os = h }
}

// WithInventory sets the scanner listing the packages already installed
func WithInventory(s scanner.Scanner) Option {
	return func(i *Installer) { i.inventory = s }
}

// WithClock replaces time.Now for download progress
func WithClock(now func() time.Time) Option {
	return func(i *Installer) { i.now = now }
}

// New creates a new Installer
func New(opts ...Option) *Installer {
	i := &Installer{
		client: http.DefaultClient,
		host:   platform.CurrentHost(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.os == nil {
		i.os = utils.NewOsHelper(i.host)
	}
	if i.inventory == nil {
		i.inventory = scanner.NewFileSystemScanner(scanner.WithHost(i.host))
	}
	return i
}

// OsHelper returns the helper holding deletions deferred until exit
func (i *Installer) OsHelper() *utils.OsHelper {
	return i.os
}

// Install installs archive a into sdkRoot. Failures are reported through
// mon and the return value; no error or panic escapes.
func (i *Installer) Install(ctx context.Context, a *sdk.Archive, sdkRoot string, forceHTTP bool, mgr sdk.Manager, mon monitor.Monitor) bool {
	_, ok := i.InstallLocal(ctx, a, sdkRoot, forceHTTP, mgr, mon)
	return ok
}

// InstallLocal is Install returning the local archive read back from the
// install record. The remote archive a is left untouched.
func (i *Installer) InstallLocal(ctx context.Context, a *sdk.Archive, sdkRoot string, forceHTTP bool, mgr sdk.Manager, mon monitor.Monitor) (local *sdk.Archive, ok bool) {
	pkg := a.Package()
	name := pkg.ShortDescription()

	defer func() {
		if r := recover(); r != nil {
			local, ok = nil, false
			i.report(mon, models.NewInstallError(models.ErrTransientIO, name,
				&stepError{msg: fmt.Sprintf("Unexpected failure installing %s: %v", name, r)}))
		}
	}()

	local, err := i.install(ctx, a, sdkRoot, forceHTTP, mgr, mon)
	if err != nil {
		i.report(mon, err)
		return nil, false
	}

	mon.SetResult("Installed %s", name)
	logrus.Infof("Installed %s in %s", name, local.LocalPath())
	return local, true
}

func (i *Installer) install(ctx context.Context, a *sdk.Archive, sdkRoot string, forceHTTP bool, mgr sdk.Manager, mon monitor.Monitor) (*sdk.Archive, error) {
	pkg := a.Package()
	name := pkg.ShortDescription()

	if reason := pkg.InvalidReason(); reason != "" {
		return nil, fail(models.ErrPrecondition, name, nil, "Skipping %s: %s", name, reason)
	}
	if a.IsLocal() {
		return nil, fail(models.ErrPrecondition, name, nil,
			"Skipping already installed archive: %s for %s", name, a.OsDescription())
	}
	if !a.CompatibleWith(i.host) {
		return nil, fail(models.ErrPrecondition, name, nil,
			"Skipping incompatible archive: %s for %s", name, a.OsDescription())
	}

	archivePath, err := i.download(ctx, a, sdkRoot, forceHTTP, mon)
	if err != nil {
		return nil, err
	}

	destDir, err := i.unarchive(ctx, a, sdkRoot, archivePath, mgr, mon)
	if err != nil {
		// a failed unpack keeps the download for the next attempt
		if models.Classify(err) == models.ErrCancelled {
			i.os.DeleteRecursive(archivePath)
		}
		return nil, err
	}
	i.os.DeleteRecursive(archivePath)

	return i.readBack(name, destDir)
}

// readBack rebuilds the installed archive from the record in destDir
func (i *Installer) readBack(name, destDir string) (*sdk.Archive, error) {
	r, err := sdk.ParseRecordDir(destDir)
	if err == nil && r == nil {
		err = fmt.Errorf("no %s", sdk.RecordFileName)
	}
	var pkg sdk.Package
	if err == nil {
		pkg, err = sdk.FromRecord(r, destDir, i.host)
	}
	if err == nil && len(pkg.Archives()) == 0 {
		err = errors.New("no archive in record")
	}
	if err != nil {
		return nil, fail(models.ErrTransientIO, name, err, "Failed to read %s in %s: %v", sdk.RecordFileName, destDir, err)
	}
	return pkg.Archives()[0], nil
}

// report shows the failure to the user and logs it with its category
func (i *Installer) report(mon monitor.Monitor, err error) {
	msg := err.Error()
	var ie *models.InstallError
	if errors.As(err, &ie) {
		msg = ie.Err.Error()
	}
	mon.SetResult("%s", msg)

	t := models.Classify(err)
	entry := logrus.WithField("error_type", t.String())
	switch t {
	case models.ErrPrecondition, models.ErrCancelled:
		entry.Infof("%v", err)
	default:
		entry.Warnf("Install failed: %v", err)
	}
}

// stepError is the message shown to the user for a failed step, wrapping
// the cause used to classify it
type stepError struct {
	msg   string
	cause error
}

func (e *stepError) Error() string { return e.msg }

func (e *stepError) Unwrap() error { return e.cause }

// fail builds the InstallError of a failed step
func fail(t models.ErrorType, pkg string, cause error, format string, args ...any) error {
	return models.NewInstallError(t, pkg, &stepError{msg: fmt.Sprintf(format, args...), cause: cause})
}

// cancelled polls the monitor and the context
func cancelled(ctx context.Context, mon monitor.Monitor) bool {
	return mon.IsCancelRequested() || ctx.Err() != nil
}
