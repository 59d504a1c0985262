// Package config loads, normalizes, and validates lxcsetup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LXCSETUP_ARTIFACT_BASE_URL. The Config type centralizes every knob the
// installer needs: log/lock/journal locations, the remote artifact source,
// and the interactive selector's timeout and fallback.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
