// Package paths resolves the per-user directories twrp2neo reads from.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. The configuration file is searched in
// [AppConfigDir], which is ~/.config/twrp2neo on Linux.
//
// [ExpandHome] turns a "~/..." argument into an absolute path, for values
// that reach the tool through a config file rather than a shell.
package paths
