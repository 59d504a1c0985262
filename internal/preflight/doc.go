// Package preflight provides host readiness checks: privileges, required
// binaries, and writability of the system paths the setup touches.
//
// Install and uninstall refuse to run when a required check fails so a
// half-privileged invocation cannot leave the host partially modified. The
// status command reuses the same checks for display.
package preflight
