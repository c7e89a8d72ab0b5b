package archive

import (
	"archive/tar"
	"io"

	"github.com/spf13/afero"

	"github.com/thoreinstein/twrp2neo/internal/errors"
)

// ErrStop may be returned from a WalkFunc to end a walk early without error.
var ErrStop = errors.New("stop walk")

// WalkFunc is called for each entry. r yields the entry's data and is only
// valid until the function returns.
type WalkFunc func(hdr *tar.Header, r io.Reader) error

// Source is one decoded archive on a filesystem.
type Source struct {
	fs   afero.Fs
	path string
}

// NewSource returns a Source for the decoded tar at path.
func NewSource(fsys afero.Fs, path string) *Source {
	return &Source{fs: fsys, path: path}
}

// Path returns the location of the decoded tar.
func (s *Source) Path() string {
	return s.path
}

// Walk opens a new handle on the archive and calls fn for every entry in
// stream order.
func (s *Source) Walk(fn WalkFunc) error {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "opening archive %s", s.path)
	}
	defer f.Close()

	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		// TWRP stores absolute names; with GODEBUG=tarinsecurepath=0 the
		// reader flags them but still returns the header.
		if err != nil && !(errors.Is(err, tar.ErrInsecurePath) && hdr != nil) {
			return errors.Wrapf(err, "reading archive %s", s.path)
		}
		if err := fn(hdr, tr); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}
