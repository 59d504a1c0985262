package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"lxcsetup/internal/catalog"
	"lxcsetup/internal/cleanup"
	"lxcsetup/internal/config"
	"lxcsetup/internal/fetch"
	"lxcsetup/internal/installer"
	"lxcsetup/internal/journal"
	"lxcsetup/internal/probe"
	"lxcsetup/internal/selector"
	"lxcsetup/internal/suite"
	"lxcsetup/internal/systemd"
)

// Outcome summarizes a completed run.
type Outcome struct {
	RunID       string
	Fingerprint probe.Fingerprint
	Groups      []string
	Cleanup     cleanup.Report
	Variant     string
	Install     installer.Report
	// NoOp is set when probing found no prior installation to clean up.
	NoOp bool
}

// Runner drives a full setup pass: probe, fingerprint, cleanup, variant
// selection, install.
type Runner struct {
	Logger   *slog.Logger
	Config   *config.Config
	Suite    *suite.Suite
	Services systemd.Manager
	Fetcher  *fetch.Client
	// Journal may be nil when history recording is disabled.
	Journal *journal.Store
	// PromptInput overrides the interactive terminal in tests.
	PromptInput  io.Reader
	PromptOutput io.Writer
	// VariantKey preselects a variant and skips the prompt.
	VariantKey string
	// AssumeDefault skips the prompt and installs the configured default.
	AssumeDefault bool
	DryRun        bool
}

// Install runs the complete flow. Cleanup failures are reported but never
// abort; an unrecognized fingerprint or an invalid explicit variant choice
// does.
func (r *Runner) Install(ctx context.Context) (*Outcome, error) {
	logger := r.logger()

	outcome, set, err := r.resolve(logger)
	if err != nil {
		return nil, err
	}

	runID := r.beginJournal(ctx, logger, "install", outcome)

	r.runCleanup(ctx, logger, outcome, set, runID)

	variant, err := r.chooseVariant()
	if err != nil {
		r.finishJournal(ctx, logger, runID, "", journal.OutcomeFailed, err.Error())
		return nil, err
	}
	outcome.Variant = variant.Key
	logger.Info("variant selected", slog.String("variant", variant.Key))

	inst := &installer.Installer{
		Logger:          logger,
		Fetcher:         r.Fetcher,
		Services:        r.Services,
		VerifyChecksums: r.Config != nil && r.Config.Artifacts.VerifyChecksums,
		DryRun:          r.DryRun,
	}
	outcome.Install = inst.Install(ctx, variant)
	r.recordInstall(ctx, logger, runID, len(set), outcome.Install)

	r.finishJournal(ctx, logger, runID, variant.Key, r.installOutcome(outcome), r.outcomeDetail(outcome))
	return outcome, nil
}

// Uninstall probes and cleans up without installing anything afterwards.
func (r *Runner) Uninstall(ctx context.Context) (*Outcome, error) {
	logger := r.logger()

	outcome, set, err := r.resolve(logger)
	if err != nil {
		return nil, err
	}

	runID := r.beginJournal(ctx, logger, "uninstall", outcome)
	r.runCleanup(ctx, logger, outcome, set, runID)

	result := journal.OutcomeSuccess
	switch {
	case outcome.NoOp:
		result = journal.OutcomeNoOp
	case outcome.Cleanup.Failed():
		result = journal.OutcomePartial
	}
	r.finishJournal(ctx, logger, runID, "", result, r.outcomeDetail(outcome))
	return outcome, nil
}

// Probe reports the current fingerprint and active groups without changing
// anything on the host.
func (r *Runner) Probe() (*Outcome, catalog.ActionSet, error) {
	return r.resolve(slog.New(slog.DiscardHandler))
}

func (r *Runner) resolve(logger *slog.Logger) (*Outcome, catalog.ActionSet, error) {
	result := probe.Run(r.Suite.MarkerPaths())
	fingerprint := result.Fingerprint()
	logger.Info("probe complete", slog.String("fingerprint", string(fingerprint)))

	set, err := catalog.Resolve(r.Suite, fingerprint)
	if err != nil {
		if errors.Is(err, catalog.ErrUnrecognizedFingerprint) {
			return nil, nil, fmt.Errorf("cannot determine installed version: %w", err)
		}
		return nil, nil, err
	}

	groups := catalog.GroupNames(r.Suite, fingerprint)
	outcome := &Outcome{
		Fingerprint: fingerprint,
		Groups:      groups,
		NoOp:        len(set) == 0,
	}
	if outcome.NoOp {
		logger.Info("no prior installation detected")
	} else {
		logger.Info("prior installation detected",
			slog.Any("groups", groups),
			slog.Int("cleanup_steps", len(set)))
	}
	return outcome, set, nil
}

func (r *Runner) runCleanup(ctx context.Context, logger *slog.Logger, outcome *Outcome, set catalog.ActionSet, runID string) {
	if len(set) == 0 {
		return
	}
	exec := &cleanup.Executor{
		Logger:   logger,
		Services: r.Services,
		DryRun:   r.DryRun,
	}
	outcome.Cleanup = exec.Run(ctx, set)
	r.recordCleanup(ctx, logger, runID, set, outcome.Cleanup)
}

func (r *Runner) chooseVariant() (suite.Variant, error) {
	variants := r.Suite.Variants
	defaultKey, timeout := r.selectorSettings()

	if r.VariantKey != "" {
		variant, ok := r.Suite.VariantByKey(r.VariantKey)
		if !ok {
			return suite.Variant{}, fmt.Errorf("unknown variant %q", r.VariantKey)
		}
		return variant, nil
	}
	if r.AssumeDefault {
		variant, ok := r.Suite.VariantByKey(defaultKey)
		if !ok {
			return suite.Variant{}, fmt.Errorf("default variant %q is not installable", defaultKey)
		}
		return variant, nil
	}
	return selector.Choose(variants, selector.Options{
		Timeout: timeout,
		Default: defaultKey,
		Input:   r.PromptInput,
		Output:  r.PromptOutput,
	})
}

func (r *Runner) selectorSettings() (string, time.Duration) {
	defaultKey := "autoscale"
	timeout := 5 * time.Second
	if r.Config != nil {
		if r.Config.Selector.DefaultVariant != "" {
			defaultKey = r.Config.Selector.DefaultVariant
		}
		if r.Config.Selector.Timeout > 0 {
			timeout = time.Duration(r.Config.Selector.Timeout) * time.Second
		}
	}
	return defaultKey, timeout
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (r *Runner) installOutcome(outcome *Outcome) string {
	if outcome.Cleanup.Failed() || outcome.Install.Failed() {
		return journal.OutcomePartial
	}
	return journal.OutcomeSuccess
}

func (r *Runner) outcomeDetail(outcome *Outcome) string {
	cleanupFailures := len(outcome.Cleanup.Failures)
	installFailures := len(outcome.Install.Failures)
	if cleanupFailures == 0 && installFailures == 0 {
		return ""
	}
	return fmt.Sprintf("%d cleanup failures, %d install failures", cleanupFailures, installFailures)
}

func (r *Runner) beginJournal(ctx context.Context, logger *slog.Logger, command string, outcome *Outcome) string {
	if r.Journal == nil {
		return ""
	}
	runID, err := r.Journal.Begin(ctx, command, string(outcome.Fingerprint), outcome.Groups)
	if err != nil {
		// History is an audit aid, never a reason to refuse setup.
		logger.Warn("journal unavailable", slog.Any("error", err))
		return ""
	}
	outcome.RunID = runID
	return runID
}

func (r *Runner) finishJournal(ctx context.Context, logger *slog.Logger, runID, variant, result, detail string) {
	if r.Journal == nil || runID == "" {
		return
	}
	if err := r.Journal.Finish(ctx, runID, variant, result, detail); err != nil {
		logger.Warn("journal finish failed", slog.Any("error", err))
	}
}

func (r *Runner) recordCleanup(ctx context.Context, logger *slog.Logger, runID string, set catalog.ActionSet, report cleanup.Report) {
	if r.Journal == nil || runID == "" {
		return
	}
	failed := make(map[catalog.Step]string, len(report.Failures))
	for _, failure := range report.Failures {
		failed[failure.Step] = failure.Err.Error()
	}
	for i, step := range set {
		status := "ok"
		detail := ""
		if r.DryRun {
			status = "planned"
		} else if msg, ok := failed[step]; ok {
			status = "failed"
			detail = msg
		}
		if err := r.Journal.RecordStep(ctx, runID, i, string(step.Kind), step.Target, status, detail); err != nil {
			logger.Warn("journal step record failed", slog.Any("error", err))
			return
		}
	}
}

func (r *Runner) recordInstall(ctx context.Context, logger *slog.Logger, runID string, seqBase int, report installer.Report) {
	if r.Journal == nil || runID == "" {
		return
	}
	seq := seqBase
	record := func(kind, target, status, detail string) {
		if err := r.Journal.RecordStep(ctx, runID, seq, kind, target, status, detail); err != nil {
			logger.Warn("journal step record failed", slog.Any("error", err))
		}
		seq++
	}
	for _, dest := range report.Installed {
		record("install", dest, "ok", "")
	}
	for _, unit := range report.Started {
		record("start-unit", unit, "ok", "")
	}
	for _, failure := range report.Failures {
		record(failure.Kind, failure.Target, "failed", failure.Err.Error())
	}
}
