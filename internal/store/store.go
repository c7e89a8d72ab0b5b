// Package store owns every mutation of the output tree.
//
// Components never join paths and call os functions themselves; they ask
// the Store to ensure a directory, move a file, or write a document. The
// Store is backed by an afero filesystem so tests can run against memory.
package store

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/thoreinstein/twrp2neo/pkg/fileutil"
)

// Permissions for everything the store creates.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)

// Store wraps an afero filesystem with the handful of operations the
// migration needs.
type Store struct {
	fs afero.Fs
}

// New returns a Store over fsys. A nil fsys means the host filesystem.
func New(fsys afero.Fs) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{fs: fsys}
}

// Fs exposes the underlying filesystem for read-only streaming access.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// EnsureDir creates path and any missing parents. It is idempotent.
func (s *Store) EnsureDir(path string) error {
	if err := s.fs.MkdirAll(path, DirPerm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}

// Move renames src to dst, replacing dst if it exists.
func (s *Store) Move(src, dst string) error {
	if err := s.fs.Rename(src, dst); err != nil {
		return errors.Wrapf(err, "moving %s to %s", src, dst)
	}
	return nil
}

// WriteFile atomically writes data to path. The parent must exist.
func (s *Store) WriteFile(path string, data []byte) error {
	if err := fileutil.AtomicWriteFile(s.fs, path, data, FilePerm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// WriteJSON atomically writes v as pretty-printed JSON. The parent must exist.
func (s *Store) WriteJSON(path string, v any) error {
	if err := fileutil.AtomicWriteJSON(s.fs, path, v); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// Create truncates or creates path for streaming writes.
func (s *Store) Create(path string) (afero.File, error) {
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePerm)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	return f, nil
}

// Open opens path for reading.
func (s *Store) Open(path string) (afero.File, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return f, nil
}

// CopyFrom streams r into a new file at path.
func (s *Store) CopyFrom(path string, r io.Reader) (int64, error) {
	f, err := s.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return n, errors.Wrapf(err, "copying into %s", path)
	}
	if err := f.Close(); err != nil {
		return n, errors.Wrapf(err, "closing %s", path)
	}
	return n, nil
}

// Exists reports whether path exists. Stat failures other than "not
// exist" count as existing so callers surface them on the next access.
func (s *Store) Exists(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// IsDir reports whether path exists and is a directory.
func (s *Store) IsDir(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.IsDir()
}

// ModTime returns the modification time of path.
func (s *Store) ModTime(path string) (time.Time, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "stat %s", path)
	}
	return info.ModTime(), nil
}

// List returns the entries of dir sorted by name.
func (s *Store) List(dir string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading directory %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Subdirs returns the sorted names of the directories directly inside dir.
func (s *Store) Subdirs(dir string) ([]string, error) {
	entries, err := s.List(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Files returns the sorted names of the regular files directly inside dir.
func (s *Store) Files(dir string) ([]string, error) {
	entries, err := s.List(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Remove deletes a single file.
func (s *Store) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}

// RemoveAll deletes path recursively. A missing path is not an error.
func (s *Store) RemoveAll(path string) error {
	if err := s.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}
