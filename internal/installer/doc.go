// Package installer fetches a variant's artifacts and brings its systemd
// units online. Installation is forward-only: failures are reported, never
// rolled back, so a rerun after fixing the cause converges on a complete
// install.
package installer
