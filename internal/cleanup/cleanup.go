package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"lxcsetup/internal/catalog"
	"lxcsetup/internal/fileutil"
	"lxcsetup/internal/systemd"
)

// Failure records one step that did not complete. Failures never stop the
// run; they exist for reporting and the journal.
type Failure struct {
	Step catalog.Step
	Err  error
}

// Report summarizes one executed ActionSet.
type Report struct {
	Executed int
	Backups  []string
	Failures []Failure
}

// Failed reports whether any step failed.
func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Executor runs cleanup ActionSets. Every step is best-effort: a failed
// backup is logged at ERROR, every other failure at WARN, and execution
// always proceeds to the end of the set so a partially broken prior install
// cannot block progress toward a clean state.
type Executor struct {
	Logger   *slog.Logger
	Services systemd.Manager
	// Now stamps backup file names; defaults to time.Now.
	Now func() time.Time
	// DryRun logs every step without touching the host.
	DryRun bool
}

// Run executes the ActionSet in order and returns the aggregate report.
func (e *Executor) Run(ctx context.Context, set catalog.ActionSet) Report {
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := e.Now
	if now == nil {
		now = time.Now
	}

	var report Report
	for _, step := range set {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, Failure{Step: step, Err: err})
			return report
		}
		if e.DryRun {
			logger.Info("would execute cleanup step",
				slog.String("kind", string(step.Kind)),
				slog.String("target", step.Target),
				slog.String("group", step.Group))
			continue
		}
		report.Executed++
		switch step.Kind {
		case catalog.StepBackup:
			backupPath, err := fileutil.Backup(step.Target, now())
			if err != nil {
				// A failed backup does not block the matching delete.
				logger.Error("backup failed",
					slog.String("path", step.Target),
					slog.String("group", step.Group),
					slog.Any("error", err))
				report.Failures = append(report.Failures, Failure{Step: step, Err: err})
				continue
			}
			logger.Info("backed up file",
				slog.String("path", step.Target),
				slog.String("backup", backupPath))
			report.Backups = append(report.Backups, backupPath)
		case catalog.StepDelete:
			e.remove(logger, &report, step, "deleted file", "delete failed")
		case catalog.StepStop:
			if err := e.Services.Stop(ctx, step.Target); err != nil {
				logger.Warn("service stop failed",
					slog.String("unit", step.Target),
					slog.String("group", step.Group),
					slog.Any("error", err))
				report.Failures = append(report.Failures, Failure{Step: step, Err: err})
				continue
			}
			logger.Info("stopped service", slog.String("unit", step.Target))
		case catalog.StepRemoveUnit:
			e.remove(logger, &report, step, "removed unit file", "unit file removal failed")
		default:
			logger.Warn("unknown cleanup step kind skipped",
				slog.String("kind", string(step.Kind)),
				slog.String("target", step.Target))
			report.Failures = append(report.Failures, Failure{Step: step, Err: errors.New("unknown step kind")})
		}
	}
	return report
}

func (e *Executor) remove(logger *slog.Logger, report *Report, step catalog.Step, okMsg, failMsg string) {
	err := os.Remove(step.Target)
	switch {
	case err == nil:
		logger.Info(okMsg, slog.String("path", step.Target))
	case errors.Is(err, fs.ErrNotExist):
		// Second runs and externally removed files land here; still a
		// warning, never an abort.
		logger.Warn("path already absent", slog.String("path", step.Target))
	default:
		logger.Warn(failMsg, slog.String("path", step.Target), slog.Any("error", err))
		report.Failures = append(report.Failures, Failure{Step: step, Err: err})
	}
}
