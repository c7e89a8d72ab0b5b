package backup

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/store"
)

// Default directory names relative to the working directory.
const (
	DefaultOutputDir  = "twrp_evacuate_migrated"
	DefaultApkStaging = "apk_temp"
)

// Manager turns extracted package directories into Neo Backup backups.
type Manager struct {
	store        *store.Store
	outputDir    string
	apkStaging   string
	placeholders Placeholders
	logger       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithOutputDir sets the destination root holding per-user directories.
func WithOutputDir(dir string) Option {
	return func(m *Manager) {
		m.outputDir = dir
	}
}

// WithApkStaging sets the directory APKs were collected into, keyed by
// package name.
func WithApkStaging(dir string) Option {
	return func(m *Manager) {
		m.apkStaging = dir
	}
}

// WithPlaceholders overrides the placeholder properties values.
func WithPlaceholders(p Placeholders) Option {
	return func(m *Manager) {
		m.placeholders = p
	}
}

// WithLogger sets the logger for per-package records.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager writing through st.
func NewManager(st *store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:        st,
		outputDir:    DefaultOutputDir,
		apkStaging:   filepath.Join(DefaultOutputDir, DefaultApkStaging),
		placeholders: DefaultPlaceholders(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Assemble processes every package directory of every user, in ascending
// user then package order, stamping each backup with when. A user with no
// directory in the output tree has no packages.
//
// Processing stops at the first error. Packages finished before it stay
// assembled.
func (m *Manager) Assemble(users []int, when time.Time) ([]Result, error) {
	var results []Result
	for _, user := range users {
		userDir := UserDir(m.outputDir, user)
		if !m.store.IsDir(userDir) {
			m.logger.Debug("no packages extracted", "user", user)
			continue
		}

		pkgs, err := m.store.Subdirs(userDir)
		if err != nil {
			return results, errors.Wrapf(err, "listing packages of user %d", user)
		}

		for _, pkg := range pkgs {
			res, err := m.assemblePackage(user, pkg, when)
			if err != nil {
				return results, errors.Wrapf(err, "assembling %s for user %d", pkg, user)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (m *Manager) assemblePackage(user int, pkg string, when time.Time) (Result, error) {
	res := Result{User: user, Package: pkg}

	moved, err := m.MoveApks(user, pkg)
	if err != nil {
		return res, err
	}
	res.Apks = moved

	pkgDir := PackageDir(m.outputDir, user, pkg)
	props := m.BuildProperties(pkgDir, pkg, when)
	res.HasApk = props.HasApk
	res.HasAppData = props.HasAppData
	res.HasDevicesProtectedData = props.HasDevicesProtectedData

	if props.Empty() {
		res.Dropped = true
		m.logger.Info("package dropped", "user", user, "package", pkg)
		return res, nil
	}

	dated, err := m.Layout(pkgDir, user, props, when)
	if err != nil {
		return res, err
	}
	res.Dated = dated

	m.logger.Info("backup assembled",
		"user", user,
		"package", pkg,
		"apk", props.HasApk,
		"data", props.HasAppData,
		"protected", props.HasDevicesProtectedData)
	return res, nil
}

// MoveApks moves every staged .apk of pkg into the user's package
// directory. Nothing happens unless both directories exist. It returns
// the number of files moved.
func (m *Manager) MoveApks(user int, pkg string) (int, error) {
	pkgDir := PackageDir(m.outputDir, user, pkg)
	stagedDir := filepath.Join(m.apkStaging, pkg)
	if !m.store.IsDir(pkgDir) || !m.store.IsDir(stagedDir) {
		return 0, nil
	}

	files, err := m.store.Files(stagedDir)
	if err != nil {
		return 0, errors.Wrap(err, "listing staged apks")
	}

	moved := 0
	for _, name := range files {
		if !strings.HasSuffix(name, ApkExt) {
			continue
		}
		if err := m.store.Move(filepath.Join(stagedDir, name), filepath.Join(pkgDir, name)); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// BuildProperties describes the package directory as it stands now.
func (m *Manager) BuildProperties(pkgDir, pkg string, when time.Time) Properties {
	return Properties{
		BackupVersionCode:       m.placeholders.BackupVersionCode,
		PackageName:             pkg,
		PackageLabel:            pkg,
		VersionName:             m.placeholders.VersionName,
		VersionCode:             m.placeholders.VersionCode,
		BackupDate:              BackupDate(when),
		HasApk:                  m.store.Exists(filepath.Join(pkgDir, BaseApkFile)),
		HasAppData:              m.store.Exists(filepath.Join(pkgDir, AppDataFile)),
		HasDevicesProtectedData: m.store.Exists(filepath.Join(pkgDir, ProtectedDataFile)),
		CPUArch:                 m.placeholders.CPUArch,
		Size:                    0,
	}
}

// Layout moves the plain files of pkgDir into a dated directory and
// writes props beside it. It returns the dated name.
func (m *Manager) Layout(pkgDir string, user int, props Properties, when time.Time) (string, error) {
	dated := DatedName(when, user)
	datedDir := filepath.Join(pkgDir, dated)
	if err := m.store.EnsureDir(datedDir); err != nil {
		return "", err
	}

	files, err := m.store.Files(pkgDir)
	if err != nil {
		return "", errors.Wrap(err, "listing package files")
	}
	for _, name := range files {
		if err := m.store.Move(filepath.Join(pkgDir, name), filepath.Join(datedDir, name)); err != nil {
			return "", err
		}
	}

	if err := m.store.WriteJSON(PropertiesPath(pkgDir, dated), props); err != nil {
		return "", errors.Wrap(err, "writing properties")
	}
	return dated, nil
}
