// Package logging builds the process-wide slog logger. Console output uses a
// compact human-readable format; a JSON handler is available for machine
// consumption. When a log directory is configured, records are teed into a
// persistent log file alongside the console.
package logging
