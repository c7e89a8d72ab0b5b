package backup

// Neo Backup file names inside a package directory.
const (
	BaseApkFile       = "base.apk"
	AppDataFile       = "data.tar.gz"
	ProtectedDataFile = "device_protected_files.tar.gz"
	PropertiesExt     = ".properties"
	ApkExt            = ".apk"
)

// Placeholder defaults written where a TWRP archive has no real value.
const (
	DefaultBackupVersionCode = 8003
	DefaultVersionName       = "0.0.0"
	DefaultVersionCode       = 0
	DefaultCPUArch           = "arm64-v8a"
)

// Properties is the metadata record Neo Backup reads next to each backup.
type Properties struct {
	// BackupVersionCode is the Neo Backup format version.
	BackupVersionCode int `json:"backupVersionCode"`

	PackageName string `json:"packageName"`

	// PackageLabel repeats the package name; the real label lives in the APK.
	PackageLabel string `json:"packageLabel"`

	VersionName string `json:"versionName"`
	VersionCode int    `json:"versionCode"`

	// BackupDate is local time formatted as 2006-01-02T15:04:05.000.
	BackupDate string `json:"backupDate"`

	HasApk                  bool `json:"hasApk"`
	HasAppData              bool `json:"hasAppData"`
	HasDevicesProtectedData bool `json:"hasDevicesProtectedData"`

	CPUArch string `json:"cpuArch"`
	Size    int64  `json:"size"`
}

// Empty reports whether the record describes no content at all.
func (p Properties) Empty() bool {
	return !p.HasApk && !p.HasAppData && !p.HasDevicesProtectedData
}

// Placeholders supplies the properties fields no archive can provide.
type Placeholders struct {
	BackupVersionCode int    `mapstructure:"backup_version_code"`
	VersionName       string `mapstructure:"version_name"`
	VersionCode       int    `mapstructure:"version_code"`
	CPUArch           string `mapstructure:"cpu_arch"`
}

// DefaultPlaceholders returns the values Neo Backup accepts for a backup
// whose APK was never inspected.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		BackupVersionCode: DefaultBackupVersionCode,
		VersionName:       DefaultVersionName,
		VersionCode:       DefaultVersionCode,
		CPUArch:           DefaultCPUArch,
	}
}

// Result describes what Assemble did with one package directory.
type Result struct {
	User    int    `json:"user" yaml:"user" toml:"user"`
	Package string `json:"package" yaml:"package" toml:"package"`

	// Apks is the number of APK files moved in from staging.
	Apks int `json:"apks" yaml:"apks" toml:"apks"`

	HasApk                  bool `json:"has_apk" yaml:"has_apk" toml:"has_apk"`
	HasAppData              bool `json:"has_app_data" yaml:"has_app_data" toml:"has_app_data"`
	HasDevicesProtectedData bool `json:"has_devices_protected_data" yaml:"has_devices_protected_data" toml:"has_devices_protected_data"`

	// Dated is the backup directory name; empty when Dropped.
	Dated   string `json:"dated,omitempty" yaml:"dated,omitempty" toml:"dated,omitempty"`
	Dropped bool   `json:"dropped" yaml:"dropped" toml:"dropped"`
}
