// Package extract copies app content out of decoded TWRP archives.
//
// [Extractor.CollectApks] stages the APK files of one install directory,
// keyed by package name. [Extractor.ExtractAppData] repackages one
// package's data tree into the gzip-compressed tar Neo Backup restores,
// with entry names relative to the package's data root.
package extract
