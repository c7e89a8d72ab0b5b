// Package archive classifies the contents of a decoded TWRP data tar.
//
// A decoded volume is a forward-only tar stream, so every scan goes
// through [Source.Walk], which opens a fresh handle each time. Scans are
// cheap compared to decompression, and this keeps memory flat no matter
// how many entries a volume holds.
//
// Classification is purely by path convention:
//
//	/data/app/<root>/<instance>/base.apk   installed packages
//	/data/user/<id>/...                    users
//	/data/data/<pkg>/...                   primary user data
//	/data/user/<id>/<pkg>/...              secondary user data
//	/data/user_de/<id>/<pkg>/...           device protected data
package archive
