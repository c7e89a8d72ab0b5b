package archive

import (
	"archive/tar"
	"io"
	"slices"
	"strconv"
	"strings"
)

// FindApks returns one location per base.apk entry, in archive order.
// Duplicates are kept.
func FindApks(src *Source) ([]ApkLocation, error) {
	var locs []ApkLocation
	err := src.Walk(func(hdr *tar.Header, _ io.Reader) error {
		if loc, ok := apkLocation(hdr.Name); ok {
			locs = append(locs, loc)
		}
		return nil
	})
	return locs, err
}

func apkLocation(name string) (ApkLocation, bool) {
	if !strings.HasPrefix(name, appRoot) || !strings.HasSuffix(name, "/"+BaseApkName) {
		return ApkLocation{}, false
	}
	// "", "data", "app", root, instance, "base.apk"
	if strings.Count(name, "/") != 5 {
		return ApkLocation{}, false
	}
	root, _ := Segment(name, apkRootIndex)
	instance, _ := Segment(name, apkInstanceIndex)
	if root == "" || instance == "" {
		return ApkLocation{}, false
	}
	return ApkLocation{Root: root, Instance: instance}, true
}

// FindUsers returns the distinct numeric user ids under /data/user,
// ascending. Non-numeric segments are skipped.
func FindUsers(src *Source) ([]int, error) {
	seen := make(map[int]struct{})
	err := src.Walk(func(hdr *tar.Header, _ io.Reader) error {
		if !strings.HasPrefix(hdr.Name, userRoot) {
			return nil
		}
		seg, ok := Segment(hdr.Name, userIDIndex)
		if !ok {
			return nil
		}
		id, err := strconv.Atoi(seg)
		if err != nil || id < 0 {
			return nil
		}
		seen[id] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortedKeys(seen), nil
}

// FindPackages returns the distinct package names present under the
// selector's base path, sorted.
func FindPackages(src *Source, sel Selector) ([]string, error) {
	base := sel.BasePath()
	index := sel.Depth() - 1

	seen := make(map[string]struct{})
	err := src.Walk(func(hdr *tar.Header, _ io.Reader) error {
		if !strings.HasPrefix(hdr.Name, base) {
			return nil
		}
		if pkg, ok := Segment(hdr.Name, index); ok && pkg != "" {
			seen[pkg] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortedKeys(seen), nil
}

func sortedKeys[K int | string](m map[K]struct{}) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MergeUsers unions user id lists, deduplicated and ascending.
func MergeUsers(lists ...[]int) []int {
	seen := make(map[int]struct{})
	for _, l := range lists {
		for _, id := range l {
			seen[id] = struct{}{}
		}
	}
	return sortedKeys(seen)
}
