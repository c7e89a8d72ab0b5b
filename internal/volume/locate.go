package volume

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/twrp2neo/internal/errors"
)

// FirstSuffix marks the first volume of a split set.
const FirstSuffix = ".win000"

// ordinalMarker precedes the zero-padded volume number.
const ordinalMarker = ".win"

// Locate returns every volume belonging to the same split set as first,
// sorted by file name. first must name the .win000 volume.
func Locate(fsys afero.Fs, first string) ([]string, error) {
	if !strings.HasSuffix(first, FirstSuffix) {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidInput, "%s is not a %s file", first, FirstSuffix),
			"Pass the first volume, e.g. data.ext4%s", FirstSuffix)
	}

	dir := filepath.Dir(first)
	info, err := fsys.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrNotFound, "parent directory of %s", first)
	}

	prefix := strings.TrimSuffix(filepath.Base(first), FirstSuffix)

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var volumes []string
	for _, e := range entries {
		if e.IsDir() || !isVolumeName(e.Name(), prefix) {
			continue
		}
		volumes = append(volumes, filepath.Join(dir, e.Name()))
	}
	sort.Strings(volumes)

	return volumes, nil
}

// isVolumeName reports whether name is prefix + ".win" + digits. Side
// files such as data.ext4.win000.sha2 do not qualify.
func isVolumeName(name, prefix string) bool {
	rest, ok := strings.CutPrefix(name, prefix+ordinalMarker)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
