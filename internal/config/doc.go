// Package config provides configuration management for the twrp2neo CLI.
//
// # Configuration File
//
// config.yaml is searched in the working directory, then in
// ~/.config/twrp2neo/. Every key is optional:
//
//	output_dir: twrp_evacuate_migrated
//	keep_staging: false
//	staging:
//	  decompressed_dir: decompressed_temp
//	  apk_dir: apk_temp
//	placeholders:
//	  backup_version_code: 8003
//	  version_name: 0.0.0
//	  version_code: 0
//	  cpu_arch: arm64-v8a
//
// Environment variables override the file, with dots replaced by
// underscores: TWRP2NEO_OUTPUT_DIR, TWRP2NEO_STAGING_APK_DIR,
// TWRP2NEO_PLACEHOLDERS_CPU_ARCH.
//
// # Loading Configuration
//
// Call [Init] once, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("") // search the default locations
//	if err != nil {
//	    return errors.NewConfigError(err)
//	}
//
// # Validation
//
// [Load] runs [Validate]. Staging names must be single directory names
// because both staging directories live inside output_dir.
package config
