package systemd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Manager abstracts the service manager operations the installer consumes.
// Every call is fallible and callers are expected to downgrade failures to
// warnings; nothing here is assumed synchronous-and-guaranteed.
type Manager interface {
	Stop(ctx context.Context, unit string) error
	Enable(ctx context.Context, unit string) error
	Start(ctx context.Context, unit string) error
	DaemonReload(ctx context.Context) error
}

// Systemctl runs systemd operations through the systemctl binary.
type Systemctl struct {
	// Binary defaults to "systemctl" when empty.
	Binary string
	// Timeout bounds a single invocation. Zero means 30 seconds.
	Timeout time.Duration
}

// New returns a Manager backed by the host systemctl.
func New() *Systemctl {
	return &Systemctl{}
}

func (s *Systemctl) Stop(ctx context.Context, unit string) error {
	return s.run(ctx, "stop", unit)
}

func (s *Systemctl) Enable(ctx context.Context, unit string) error {
	return s.run(ctx, "enable", unit)
}

func (s *Systemctl) Start(ctx context.Context, unit string) error {
	return s.run(ctx, "start", unit)
}

func (s *Systemctl) DaemonReload(ctx context.Context) error {
	return s.run(ctx, "daemon-reload")
}

func (s *Systemctl) run(ctx context.Context, args ...string) error {
	binary := strings.TrimSpace(s.Binary)
	if binary == "" {
		binary = "systemctl"
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, detail)
		}
		return fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return nil
}
