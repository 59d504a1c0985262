// Package journal persists a history of setup runs in SQLite. Each run
// records the detected fingerprint, the active version groups, every cleanup
// and install action executed, and the final outcome, so operators can audit
// what a previous invocation changed on the host.
package journal
