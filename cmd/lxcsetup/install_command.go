package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lxcsetup/internal/preflight"
	"lxcsetup/internal/runlock"
	"lxcsetup/internal/runner"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var variantFlag string
	var yesFlag bool
	var dryRunFlag bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Clean up any prior version and install a variant",
		Long: strings.TrimSpace(`
Probes the host for traces of earlier installations, removes them with config
backups, then fetches and starts the selected variant. Without --variant or
--yes an interactive prompt offers the choice; the configured default wins on
timeout.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withMutatingRun(ctx, dryRunFlag, func(r *runner.Runner) error {
				r.VariantKey = variantFlag
				r.AssumeDefault = yesFlag

				outcome, err := r.Install(runCtx)
				if err != nil {
					return err
				}
				printOutcome(cmd, outcome, dryRunFlag)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&variantFlag, "variant", "", "Variant to install (autoscale or autoscale-ml)")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the prompt and install the default variant")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Log planned actions without changing the host")
	return cmd
}

func newUninstallCommand(ctx *commandContext) *cobra.Command {
	var dryRunFlag bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove every detected installation without installing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withMutatingRun(ctx, dryRunFlag, func(r *runner.Runner) error {
				outcome, err := r.Uninstall(runCtx)
				if err != nil {
					return err
				}
				printOutcome(cmd, outcome, dryRunFlag)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Log planned actions without changing the host")
	return cmd
}

// withMutatingRun gates host-changing commands behind preflight checks and
// the exclusive run lock. Dry runs skip both so they work unprivileged.
func withMutatingRun(ctx *commandContext, dryRun bool, fn func(*runner.Runner) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	if !dryRun {
		results := preflight.RunAll(cfg)
		if len(preflight.Failed(results)) > 0 {
			var lines []string
			for _, result := range results {
				if !result.Passed {
					lines = append(lines, fmt.Sprintf("%s: %s", result.Name, result.Detail))
				}
			}
			return fmt.Errorf("preflight checks failed:\n  %s", strings.Join(lines, "\n  "))
		}

		lock := runlock.New(cfg.LockPath())
		if err := lock.Acquire(); err != nil {
			return err
		}
		defer lock.Release()
	}

	store, err := ctx.openJournal()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	r, err := ctx.buildRunner(store, dryRun)
	if err != nil {
		return err
	}
	return fn(r)
}

func printOutcome(cmd *cobra.Command, outcome *runner.Outcome, dryRun bool) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Fingerprint: %s\n", outcome.Fingerprint)
	if outcome.NoOp {
		fmt.Fprintln(out, "No prior installation found")
	} else {
		fmt.Fprintf(out, "Cleaned up: %s\n", strings.Join(outcome.Groups, ", "))
		for _, backup := range outcome.Cleanup.Backups {
			fmt.Fprintf(out, "  backup: %s\n", backup)
		}
		for _, failure := range outcome.Cleanup.Failures {
			fmt.Fprintf(out, "  failed %s %s: %v\n", failure.Step.Kind, failure.Step.Target, failure.Err)
		}
	}

	if outcome.Variant != "" {
		fmt.Fprintf(out, "Installed variant: %s\n", outcome.Variant)
		for _, failure := range outcome.Install.Failures {
			fmt.Fprintf(out, "  failed %s: %v\n", failure.Target, failure.Err)
		}
	}

	if dryRun {
		fmt.Fprintln(out, "Dry run: no changes were made")
	}
}
