// Package migrate runs the TWRP to Neo Backup conversion end to end.
//
// A [Migrator] locates the split volumes, decodes each into staging,
// stages APKs and repackages app data for every user found, assembles the
// Neo Backup layout, and removes staging. Everything runs sequentially in
// sorted order and stops at the first error; work finished before the
// error stays on disk.
//
// [Migrator.Scan] decodes the same volumes and reports what a migration
// would find without writing into the output tree.
package migrate
