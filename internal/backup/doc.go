// Package backup assembles extracted app content into the Neo Backup layout.
//
// After every volume has been extracted, the destination tree holds one
// directory per (user, package):
//
//	<output>/
//	└── {user}/
//	    └── {package}/
//	        ├── data.tar.gz
//	        └── device_protected_files.tar.gz
//
// [Manager.Assemble] walks that tree, moves staged APKs in, and turns each
// package directory into a dated backup with its properties record:
//
//	<output>/
//	└── {user}/
//	    └── {package}/
//	        ├── 2024-03-09-14-05-06-000-user_{user}/
//	        │   ├── base.apk
//	        │   ├── data.tar.gz
//	        │   └── device_protected_files.tar.gz
//	        └── 2024-03-09-14-05-06-000-user_{user}.properties
//
// A package directory holding no APK and no data is left untouched and
// reported as dropped.
//
// # Properties
//
// Neo Backup needs a [Properties] record per backup. Only the package name,
// the backup date and the three presence flags are known from a TWRP
// archive; version, label and architecture come from [Placeholders].
package backup
