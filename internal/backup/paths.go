package backup

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

const (
	datedLayout      = "2006-01-02-15-04-05"
	backupDateLayout = "2006-01-02T15:04:05.000"
)

// DatedName is the backup directory name for a run at t by user, in local
// time with millisecond precision, e.g. 2024-03-09-14-05-06-000-user_10.
func DatedName(t time.Time, user int) string {
	t = t.Local()
	return fmt.Sprintf("%s-%03d-user_%d", t.Format(datedLayout), t.Nanosecond()/int(time.Millisecond), user)
}

// BackupDate formats t for the properties record.
func BackupDate(t time.Time) string {
	return t.Local().Format(backupDateLayout)
}

// UserDir returns <output>/<user>.
func UserDir(outputDir string, user int) string {
	return filepath.Join(outputDir, strconv.Itoa(user))
}

// PackageDir returns <output>/<user>/<pkg>.
func PackageDir(outputDir string, user int, pkg string) string {
	return filepath.Join(UserDir(outputDir, user), pkg)
}

// PropertiesPath is the record written beside the dated directory.
func PropertiesPath(pkgDir, dated string) string {
	return filepath.Join(pkgDir, dated+PropertiesExt)
}
