package migrate

import (
	"slices"

	"github.com/thoreinstein/twrp2neo/internal/archive"
	"github.com/thoreinstein/twrp2neo/internal/errors"
)

// ScanReport lists what a migration of a backup would work on.
type ScanReport struct {
	Volumes []string     `json:"volumes" yaml:"volumes" toml:"volumes"`
	Users   []UserReport `json:"users" yaml:"users" toml:"users"`
	Apks    []ApkReport  `json:"apks" yaml:"apks" toml:"apks"`
}

// UserReport lists the packages holding data for one user.
type UserReport struct {
	ID        int      `json:"id" yaml:"id" toml:"id"`
	Data      []string `json:"data" yaml:"data" toml:"data"`
	Protected []string `json:"protected" yaml:"protected" toml:"protected"`
}

// ApkReport is one install directory found under /data/app.
type ApkReport struct {
	Package string `json:"package" yaml:"package" toml:"package"`
	Dir     string `json:"dir" yaml:"dir" toml:"dir"`
	Archive string `json:"archive" yaml:"archive" toml:"archive"`
}

// Scan decodes the volumes of first and classifies their contents. The
// output tree only receives staging, which is always removed again.
func (m *Migrator) Scan(first string) (report *ScanReport, err error) {
	defer func() {
		if cerr := m.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sources, vols, err := m.decode(first)
	if err != nil {
		return nil, err
	}
	users, err := m.users(sources)
	if err != nil {
		return nil, err
	}

	report = &ScanReport{Volumes: vols}
	for _, src := range sources {
		locs, err := archive.FindApks(src)
		if err != nil {
			return nil, errors.Wrap(err, "finding apks")
		}
		for _, loc := range locs {
			report.Apks = append(report.Apks, ApkReport{
				Package: loc.PackageName(),
				Dir:     loc.Dir(),
				Archive: src.Path(),
			})
		}
	}

	for _, user := range users {
		ur := UserReport{ID: user}
		for _, src := range sources {
			data, err := archive.FindPackages(src, archive.Selector{User: user})
			if err != nil {
				return nil, errors.Wrap(err, "finding packages")
			}
			protected, err := archive.FindPackages(src, archive.Selector{User: user, Protected: true})
			if err != nil {
				return nil, errors.Wrap(err, "finding packages")
			}
			ur.Data = mergeNames(ur.Data, data)
			ur.Protected = mergeNames(ur.Protected, protected)
		}
		report.Users = append(report.Users, ur)
	}
	return report, nil
}

func mergeNames(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, l := range [][]string{a, b} {
		for _, n := range l {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
