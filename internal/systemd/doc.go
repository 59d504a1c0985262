// Package systemd wraps the systemctl operations the installer needs:
// stop, enable, start, and daemon-reload. The Manager interface exists so
// the cleanup executor and installer can be tested against a recording fake
// without touching the host service manager.
package systemd
