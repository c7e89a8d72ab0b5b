// Package volume finds and decodes the split volumes of a TWRP backup.
//
// TWRP writes a partition backup as data.ext4.win000, data.ext4.win001,
// and so on. Each volume is a complete gzip member: a 10-byte header
// followed by a raw deflate stream of tar data. Volumes are decoded one
// at a time, never concatenated first.
package volume
