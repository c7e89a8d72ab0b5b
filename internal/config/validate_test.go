package config

import (
	"testing"

	"github.com/thoreinstein/twrp2neo/internal/backup"
	"github.com/thoreinstein/twrp2neo/internal/errors"
)

func validConfig() *Config {
	return &Config{
		OutputDir:    "twrp_evacuate_migrated",
		Staging:      Staging{DecompressedDir: "decompressed_temp", ApkDir: "apk_temp"},
		Placeholders: backup.DefaultPlaceholders(),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantCount int
		wantErr   error
	}{
		{"valid", func(*Config) {}, 0, nil},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, 1, ErrInvalidPath},
		{"nul in output dir", func(c *Config) { c.OutputDir = "out\x00put" }, 1, ErrInvalidPath},
		{"nested staging dir", func(c *Config) { c.Staging.ApkDir = "a/b" }, 1, ErrInvalidPath},
		{"dot staging dir", func(c *Config) { c.Staging.DecompressedDir = ".." }, 1, ErrInvalidPath},
		{"shared staging dir", func(c *Config) { c.Staging.ApkDir = "decompressed_temp" }, 1, ErrInvalidPath},
		{"zero backup version", func(c *Config) { c.Placeholders.BackupVersionCode = 0 }, 1, ErrInvalidPlaceholder},
		{"negative version code", func(c *Config) { c.Placeholders.VersionCode = -1 }, 1, ErrInvalidPlaceholder},
		{"several", func(c *Config) {
			c.OutputDir = ""
			c.Placeholders.BackupVersionCode = -5
		}, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := Validate(cfg)
			if len(errs) != tt.wantCount {
				t.Fatalf("Validate() returned %d errors, want %d: %v", len(errs), tt.wantCount, errs)
			}
			if tt.wantErr != nil && !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", errs[0], tt.wantErr)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestPathError(t *testing.T) {
	err := &PathError{Field: KeyApkDir, Path: "a/b", Err: ErrInvalidPath}
	if got, want := err.Error(), "staging.apk_dir: invalid path: a/b"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var pe *PathError
	if !errors.As(error(err), &pe) || pe.Field != KeyApkDir {
		t.Error("errors.As should find the PathError")
	}
}
