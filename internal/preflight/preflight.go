package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"lxcsetup/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every host readiness check. Mutating commands refuse to
// proceed when a required check fails; the status command only displays the
// results.
func RunAll(cfg *config.Config) []Result {
	results := []Result{
		CheckRoot(),
		CheckBinary("systemctl", "systemctl", "required to manage daemon units"),
		CheckKernel(),
		CheckWritable("systemd unit directory", "/etc/systemd/system"),
		CheckWritable("configuration root", "/etc"),
	}
	if cfg != nil && cfg.Paths.LogDir != "" {
		results = append(results, CheckLogDir(cfg.Paths.LogDir))
	}
	return results
}

// Failed returns the names of checks that did not pass.
func Failed(results []Result) []string {
	var names []string
	for _, result := range results {
		if !result.Passed {
			names = append(names, result.Name)
		}
	}
	return names
}

// CheckRoot verifies the process runs with root privileges. Marker probing
// works unprivileged but cleanup and install both need to write system paths.
func CheckRoot() Result {
	const name = "root privileges"
	if os.Geteuid() != 0 {
		return Result{Name: name, Detail: fmt.Sprintf("running as uid %d, need root", os.Geteuid())}
	}
	return Result{Name: name, Passed: true, Detail: "running as root"}
}

// CheckBinary verifies an external command is on PATH.
func CheckBinary(name, command, description string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	if _, err := exec.LookPath(command); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found; %s", command, description)}
	}
	return Result{Name: name, Passed: true, Detail: command}
}

// CheckKernel reports the running kernel. Informational only; it always
// passes on any Linux host.
func CheckKernel() Result {
	const name = "kernel"
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("uname: %v", err)}
	}
	release := unix.ByteSliceToString(uname.Release[:])
	machine := unix.ByteSliceToString(uname.Machine[:])
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s %s", release, machine)}
}

// CheckWritable verifies the directory exists and is writable.
func CheckWritable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// CheckLogDir verifies the log directory can be created and written.
func CheckLogDir(path string) Result {
	const name = "log directory"
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
