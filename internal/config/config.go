// Package config provides configuration management for twrp2neo using Viper.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/twrp2neo/internal/backup"
	"github.com/thoreinstein/twrp2neo/internal/errors"
	"github.com/thoreinstein/twrp2neo/internal/migrate"
	"github.com/thoreinstein/twrp2neo/internal/paths"
)

// EnvPrefix namespaces environment overrides, e.g. TWRP2NEO_OUTPUT_DIR.
const EnvPrefix = "TWRP2NEO"

// Configuration keys.
const (
	KeyOutputDir         = "output_dir"
	KeyDecompressedDir   = "staging.decompressed_dir"
	KeyApkDir            = "staging.apk_dir"
	KeyKeepStaging       = "keep_staging"
	KeyBackupVersionCode = "placeholders.backup_version_code"
	KeyVersionName       = "placeholders.version_name"
	KeyVersionCode       = "placeholders.version_code"
	KeyCPUArch           = "placeholders.cpu_arch"
)

// Config represents the top-level configuration structure.
type Config struct {
	OutputDir    string              `mapstructure:"output_dir" yaml:"output_dir"`
	Staging      Staging             `mapstructure:"staging" yaml:"staging"`
	KeepStaging  bool                `mapstructure:"keep_staging" yaml:"keep_staging"`
	Placeholders backup.Placeholders `mapstructure:"placeholders" yaml:"placeholders"`
}

// Staging names the transient directories created inside the output
// directory during a run.
type Staging struct {
	DecompressedDir string `mapstructure:"decompressed_dir" yaml:"decompressed_dir"`
	ApkDir          string `mapstructure:"apk_dir" yaml:"apk_dir"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	// Environment variable support; nested keys use underscores
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	p := backup.DefaultPlaceholders()
	viper.SetDefault(KeyOutputDir, backup.DefaultOutputDir)
	viper.SetDefault(KeyDecompressedDir, migrate.DefaultDecompressedDir)
	viper.SetDefault(KeyApkDir, migrate.DefaultApkDir)
	viper.SetDefault(KeyKeepStaging, false)
	viper.SetDefault(KeyBackupVersionCode, p.BackupVersionCode)
	viper.SetDefault(KeyVersionName, p.VersionName)
	viper.SetDefault(KeyVersionCode, p.VersionCode)
	viper.SetDefault(KeyCPUArch, p.CPUArch)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
// The result is validated; every failure is marked errors.ErrInvalidConfig.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file: defaults apply
		case path != "":
			return nil, errors.Mark(errors.Wrapf(err, "reading config file %s", path), errors.ErrInvalidConfig)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	out, err := paths.ExpandHome(cfg.OutputDir)
	if err != nil {
		return nil, errors.Wrap(err, "expanding output_dir")
	}
	cfg.OutputDir = out

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(joinErrors(errs), errors.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Used returns the config file Viper read, or "" when defaults were used.
func Used() string {
	return viper.ConfigFileUsed()
}

// MigrateOptions converts the configuration into Migrator options.
func (c *Config) MigrateOptions() []migrate.Option {
	return []migrate.Option{
		migrate.WithOutputDir(c.OutputDir),
		migrate.WithStagingDirs(c.Staging.DecompressedDir, c.Staging.ApkDir),
		migrate.WithKeepStaging(c.KeepStaging),
		migrate.WithPlaceholders(c.Placeholders),
	}
}

func joinErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return errors.Newf("invalid configuration: %s", strings.Join(msgs, "; "))
}
