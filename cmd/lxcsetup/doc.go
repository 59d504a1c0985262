// Command lxcsetup manages the LXC AutoScale daemon suite on a Proxmox
// host. It detects traces of earlier installations, cleans them up with
// config backups, then fetches and starts the selected variant. Runs are
// recorded in a local journal for auditing.
package main
