package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/twrp2neo/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPlaceholder indicates a placeholder Neo Backup would reject.
	ErrInvalidPlaceholder = errors.New("invalid placeholder")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if err := validatePath(cfg.OutputDir); err != nil {
		errs = append(errs, &PathError{Field: KeyOutputDir, Path: cfg.OutputDir, Err: err})
	}

	// Staging directories live directly inside the output directory
	staging := []struct{ field, name string }{
		{KeyDecompressedDir, cfg.Staging.DecompressedDir},
		{KeyApkDir, cfg.Staging.ApkDir},
	}
	for _, s := range staging {
		if err := validateComponent(s.name); err != nil {
			errs = append(errs, &PathError{Field: s.field, Path: s.name, Err: err})
		}
	}
	if cfg.Staging.DecompressedDir != "" && cfg.Staging.DecompressedDir == cfg.Staging.ApkDir {
		errs = append(errs, &PathError{Field: KeyApkDir, Path: cfg.Staging.ApkDir,
			Err: errors.Wrap(ErrInvalidPath, "same as staging.decompressed_dir")})
	}

	if cfg.Placeholders.BackupVersionCode <= 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidPlaceholder,
			"%s must be positive, got %d", KeyBackupVersionCode, cfg.Placeholders.BackupVersionCode))
	}
	if cfg.Placeholders.VersionCode < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidPlaceholder,
			"%s must not be negative, got %d", KeyVersionCode, cfg.Placeholders.VersionCode))
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" {
		return ErrInvalidPath
	}

	return nil
}

// validateComponent accepts a single directory name.
func validateComponent(name string) error {
	if err := validatePath(name); err != nil {
		return err
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidPath
	}
	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
