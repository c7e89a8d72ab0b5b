package archive

import (
	"strconv"
	"strings"
)

// Segment returns the i-th element of name split on "/". Absolute archive
// paths start with an empty element, so "/data/data/pkg" has "pkg" at 3.
func Segment(name string, i int) (string, bool) {
	parts := strings.Split(name, "/")
	if i < 0 || i >= len(parts) {
		return "", false
	}
	return parts[i], true
}

// Path prefixes and segment positions of the Android data layout.
const (
	appRoot         = "/data/app/"
	userRoot        = "/data/user/"
	primaryDataRoot = "/data/data/"
	protectedRoot   = "/data/user_de/"

	apkRootIndex     = 3 // /data/app/<root>
	apkInstanceIndex = 4 // /data/app/<root>/<instance>
	userIDIndex      = 3 // /data/user/<id>

	// Depths are 1-based segment counts ending at the package name.
	primaryDataDepth   = 4 // /data/data/<pkg>
	userDataDepth      = 5 // /data/user/<id>/<pkg>
	protectedDataDepth = 5 // /data/user_de/<id>/<pkg>
)

// BaseApkName is the primary APK inside an install directory.
const BaseApkName = "base.apk"

// PrimaryUser is the device owner; its data lives under /data/data.
const PrimaryUser = 0

// Selector picks the per-user data tree to scan.
type Selector struct {
	User      int
	Protected bool
}

// BasePath is the directory whose children are package directories,
// with a trailing slash.
func (s Selector) BasePath() string {
	switch {
	case s.Protected:
		return protectedRoot + strconv.Itoa(s.User) + "/"
	case s.User == PrimaryUser:
		return primaryDataRoot
	default:
		return userRoot + strconv.Itoa(s.User) + "/"
	}
}

// Depth is the 1-based segment position of the package name.
func (s Selector) Depth() int {
	switch {
	case s.Protected:
		return protectedDataDepth
	case s.User == PrimaryUser:
		return primaryDataDepth
	default:
		return userDataDepth
	}
}

// DataRoot is the archive directory holding pkg's data, without a
// trailing slash.
func (s Selector) DataRoot(pkg string) string {
	return s.BasePath() + pkg
}

// OutputName is the archive file the selected data is repackaged into.
func (s Selector) OutputName() string {
	if s.Protected {
		return "device_protected_files.tar.gz"
	}
	return "data.tar.gz"
}

// String implements fmt.Stringer for log lines.
func (s Selector) String() string {
	kind := "data"
	if s.Protected {
		kind = "protected"
	}
	return "user " + strconv.Itoa(s.User) + " " + kind
}

// ApkLocation identifies one install directory under /data/app.
//
// Example: root "~~YUW09CEoPo_qnb20Rnmw2Q==", instance
// "com.machiav3lli.backup-DqFd2HhZgfqT9Ep65qCtZQ==".
type ApkLocation struct {
	Root     string
	Instance string
}

// PackageName is the instance token up to its first "-".
func (l ApkLocation) PackageName() string {
	name, _, _ := strings.Cut(l.Instance, "-")
	return name
}

// Dir is the install directory with a trailing slash.
func (l ApkLocation) Dir() string {
	return appRoot + l.Root + "/" + l.Instance + "/"
}
