package migrate

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/thoreinstein/twrp2neo/internal/archive"
	"github.com/thoreinstein/twrp2neo/internal/backup"
	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/extract"
	"github.com/thoreinstein/twrp2neo/internal/store"
	"github.com/thoreinstein/twrp2neo/internal/volume"
)

// Default staging directory names, relative to the output directory.
const (
	DefaultDecompressedDir = "decompressed_temp"
	DefaultApkDir          = backup.DefaultApkStaging
)

// Migrator converts one TWRP data backup.
type Migrator struct {
	fs           afero.Fs
	store        *store.Store
	outputDir    string
	tarDir       string
	apkDir       string
	keepStaging  bool
	placeholders backup.Placeholders
	logger       *slog.Logger
	progress     Progress
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithOutputDir sets the destination root.
func WithOutputDir(dir string) Option {
	return func(m *Migrator) {
		m.outputDir = dir
	}
}

// WithStagingDirs sets the decoded-archive and APK staging directory
// names, both relative to the output directory.
func WithStagingDirs(decompressed, apk string) Option {
	return func(m *Migrator) {
		if decompressed != "" {
			m.tarDir = decompressed
		}
		if apk != "" {
			m.apkDir = apk
		}
	}
}

// WithKeepStaging leaves staging directories in place after a run.
func WithKeepStaging(keep bool) Option {
	return func(m *Migrator) {
		m.keepStaging = keep
	}
}

// WithPlaceholders overrides the placeholder properties values.
func WithPlaceholders(p backup.Placeholders) Option {
	return func(m *Migrator) {
		m.placeholders = p
	}
}

// WithLogger sets the logger handed to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(m *Migrator) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Migrator over fsys. A nil fsys means the host filesystem.
func New(fsys afero.Fs, opts ...Option) *Migrator {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	m := &Migrator{
		fs:           fsys,
		store:        store.New(fsys),
		outputDir:    backup.DefaultOutputDir,
		tarDir:       DefaultDecompressedDir,
		apkDir:       DefaultApkDir,
		placeholders: backup.DefaultPlaceholders(),
		logger:       slog.Default(),
		progress:     nopProgress{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OutputDir returns the destination root.
func (m *Migrator) OutputDir() string {
	return m.outputDir
}

func (m *Migrator) tarStaging() string {
	return filepath.Join(m.outputDir, m.tarDir)
}

func (m *Migrator) apkStaging() string {
	return filepath.Join(m.outputDir, m.apkDir)
}

// Run converts the backup whose first volume is first.
func (m *Migrator) Run(first string) (*Summary, error) {
	start := time.Now()

	sources, vols, err := m.decode(first)
	if err != nil {
		return nil, err
	}

	// Every backup in the run shares the first volume's mtime.
	when, err := m.store.ModTime(first)
	if err != nil {
		return nil, errors.Wrap(err, "reading backup time")
	}

	users, err := m.users(sources)
	if err != nil {
		return nil, err
	}
	m.logger.Info("users found", "users", users)

	sum := &Summary{
		OutputDir:  m.outputDir,
		Volumes:    vols,
		Users:      users,
		BackupTime: backup.BackupDate(when),
	}

	ext := extract.New(m.store, extract.WithLogger(m.logger))
	m.progress.Start(StageExtract, len(sources))
	for _, src := range sources {
		if err := m.extractArchive(ext, src, users, sum); err != nil {
			return sum, err
		}
		m.progress.Advance()
	}

	mgr := backup.NewManager(m.store,
		backup.WithOutputDir(m.outputDir),
		backup.WithApkStaging(m.apkStaging()),
		backup.WithPlaceholders(m.placeholders),
		backup.WithLogger(m.logger))
	m.progress.Start(StageAssemble, 1)
	results, err := mgr.Assemble(users, when)
	sum.Packages = results
	if err != nil {
		return sum, errors.Wrap(err, "assembling backups")
	}
	m.progress.Advance()

	if m.keepStaging {
		m.logger.Info("staging kept", "decompressed", m.tarStaging(), "apk", m.apkStaging())
	} else if err := m.Cleanup(); err != nil {
		return sum, err
	}

	sum.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return sum, nil
}

// decode locates the volumes of first and decodes each into staging, in
// order.
func (m *Migrator) decode(first string) ([]*archive.Source, []string, error) {
	vols, err := volume.Locate(m.fs, first)
	if err != nil {
		return nil, nil, err
	}
	if len(vols) == 0 {
		return nil, nil, errors.WithHint(
			errors.Wrapf(errors.ErrNotFound, "no volumes beside %s", first),
			"Pass the .win000 file of a TWRP data backup")
	}
	m.logger.Info("volumes found", "count", len(vols))

	dec := volume.NewDecoder(m.fs, m.logger)
	sources := make([]*archive.Source, 0, len(vols))
	m.progress.Start(StageDecode, len(vols))
	for _, v := range vols {
		out, err := dec.Decompress(v, m.tarStaging())
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, archive.NewSource(m.fs, out))
		m.progress.Advance()
	}
	return sources, vols, nil
}

func (m *Migrator) users(sources []*archive.Source) ([]int, error) {
	lists := make([][]int, 0, len(sources))
	for _, src := range sources {
		ids, err := archive.FindUsers(src)
		if err != nil {
			return nil, errors.Wrap(err, "finding users")
		}
		lists = append(lists, ids)
	}
	return archive.MergeUsers(lists...), nil
}

// extractArchive stages the APKs of one decoded archive, then repackages
// each user's unprotected and protected app data.
func (m *Migrator) extractArchive(ext *extract.Extractor, src *archive.Source, users []int, sum *Summary) error {
	log := m.logger.With("archive", filepath.Base(src.Path()))

	locs, err := archive.FindApks(src)
	if err != nil {
		return errors.Wrap(err, "finding apks")
	}
	log.Info("apks found", "count", len(locs))
	for _, loc := range locs {
		n, err := ext.CollectApks(src, loc, m.apkStaging())
		if err != nil {
			return err
		}
		sum.ApkLocations++
		sum.ApksStaged += n
	}

	for _, user := range users {
		for _, protected := range []bool{false, true} {
			sel := archive.Selector{User: user, Protected: protected}
			pkgs, err := archive.FindPackages(src, sel)
			if err != nil {
				return errors.Wrapf(err, "finding packages for %s", sel)
			}
			log.Debug("packages found", "selector", sel.String(), "count", len(pkgs))

			for _, pkg := range pkgs {
				produced, err := ext.ExtractAppData(src, sel, pkg, m.outputDir)
				if err != nil {
					return err
				}
				if produced {
					sum.DataArchives++
				}
			}
		}
	}
	return nil
}
