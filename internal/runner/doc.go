// Package runner sequences a setup pass end to end: probe the host for
// installation markers, resolve the fingerprint against the action catalog,
// apply best-effort cleanup, select a variant, and install it. The uninstall
// flow stops after cleanup.
package runner
