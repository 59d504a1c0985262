package installer

import (
	"context"
	"log/slog"
	"os"

	"lxcsetup/internal/fetch"
	"lxcsetup/internal/suite"
	"lxcsetup/internal/systemd"
)

// Failure records one step that did not install. The run keeps going; there
// is no rollback of earlier steps. Kind names the step that failed so the
// journal can attribute it ("directory", "fetch", "daemon-reload",
// "start-unit").
type Failure struct {
	Kind   string
	Target string
	Err    error
}

// Report summarizes one install run.
type Report struct {
	Variant   string
	Installed []string
	Started   []string
	Failures  []Failure
}

// Failed reports whether any artifact or unit failed.
func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Installer lays down one variant: directories, fetched artifacts, then
// systemd unit activation.
type Installer struct {
	Logger   *slog.Logger
	Fetcher  *fetch.Client
	Services systemd.Manager
	// VerifyChecksums enables digest checks for manifest entries that
	// declare one.
	VerifyChecksums bool
	// DryRun logs every step without touching the host.
	DryRun bool
}

// Install fetches and activates the variant. Individual artifact and unit
// failures are logged and collected; they never abort the remaining work.
func (i *Installer) Install(ctx context.Context, variant suite.Variant) Report {
	logger := i.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("variant", variant.Key))

	report := Report{Variant: variant.Key}

	for _, dir := range variant.Dirs {
		if i.DryRun {
			logger.Info("would create directory", slog.String("path", dir))
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Warn("directory creation failed", slog.String("path", dir), slog.Any("error", err))
			report.Failures = append(report.Failures, Failure{Kind: "directory", Target: dir, Err: err})
		}
	}

	for _, entry := range variant.Manifest {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, Failure{Kind: "fetch", Target: entry.Dest, Err: err})
			return report
		}
		if i.DryRun {
			logger.Info("would fetch artifact",
				slog.String("source", entry.Source),
				slog.String("dest", entry.Dest))
			continue
		}
		digest := ""
		if i.VerifyChecksums {
			digest = entry.SHA256
		}
		if err := i.Fetcher.Download(ctx, entry.Source, entry.Dest, entry.Mode, digest); err != nil {
			logger.Warn("artifact fetch failed",
				slog.String("source", entry.Source),
				slog.String("dest", entry.Dest),
				slog.Any("error", err))
			report.Failures = append(report.Failures, Failure{Kind: "fetch", Target: entry.Dest, Err: err})
			continue
		}
		logger.Info("installed artifact", slog.String("dest", entry.Dest))
		report.Installed = append(report.Installed, entry.Dest)
	}

	if i.DryRun {
		for _, unit := range variant.Units {
			logger.Info("would enable and start unit", slog.String("unit", unit))
		}
		return report
	}

	if err := i.Services.DaemonReload(ctx); err != nil {
		logger.Warn("daemon-reload failed", slog.Any("error", err))
		report.Failures = append(report.Failures, Failure{Kind: "daemon-reload", Target: "daemon-reload", Err: err})
	}

	for _, unit := range variant.Units {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, Failure{Kind: "start-unit", Target: unit, Err: err})
			return report
		}
		if err := i.startUnit(ctx, logger, unit); err != nil {
			report.Failures = append(report.Failures, Failure{Kind: "start-unit", Target: unit, Err: err})
			continue
		}
		report.Started = append(report.Started, unit)
	}
	return report
}

// startUnit enables then starts one unit. A failed enable still attempts the
// start so a masked preset cannot block a functioning service.
func (i *Installer) startUnit(ctx context.Context, logger *slog.Logger, unit string) error {
	if err := i.Services.Enable(ctx, unit); err != nil {
		logger.Warn("unit enable failed", slog.String("unit", unit), slog.Any("error", err))
	}
	if err := i.Services.Start(ctx, unit); err != nil {
		logger.Warn("unit start failed", slog.String("unit", unit), slog.Any("error", err))
		return err
	}
	logger.Info("unit started", slog.String("unit", unit))
	return nil
}
