package extract

import (
	"archive/tar"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/twrp2neo/internal/archive"
	"github.com/thoreinstein/twrp2neo/internal/errors"
)

// ApkSuffix marks the files collected from an install directory.
const ApkSuffix = ".apk"

// CollectApks copies every .apk under loc's install directory into
// <stagingDir>/<package>/, keeping file names. A file already staged under
// the same name is replaced. It returns the number of files copied.
func (e *Extractor) CollectApks(src *archive.Source, loc archive.ApkLocation, stagingDir string) (int, error) {
	prefix := loc.Dir()
	pkgDir := filepath.Join(stagingDir, loc.PackageName())

	copied := 0
	err := src.Walk(func(hdr *tar.Header, r io.Reader) error {
		if hdr.Typeflag != tar.TypeReg || !strings.HasPrefix(hdr.Name, prefix) || !strings.HasSuffix(hdr.Name, ApkSuffix) {
			return nil
		}
		if err := e.store.EnsureDir(pkgDir); err != nil {
			return err
		}
		dst := filepath.Join(pkgDir, path.Base(hdr.Name))
		if _, err := e.store.CopyFrom(dst, r); err != nil {
			return errors.Wrapf(err, "staging %s", hdr.Name)
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, errors.Wrapf(err, "collecting apks for %s", loc.PackageName())
	}

	if copied > 0 {
		e.logger.Debug("apks staged", "package", loc.PackageName(), "files", copied)
	}
	return copied, nil
}
