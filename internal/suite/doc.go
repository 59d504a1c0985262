// Package suite declares the installable variants of the LXC AutoScale
// family and the version groups left behind by earlier releases.
//
// The tables here replace the scattered per-path globals of the original
// installer: every marker path, file to delete, service to stop, and unit
// file to remove lives in one declarative structure, built once at startup
// and passed by reference to the probe, catalog, and installer.
package suite
