package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lxcsetup/internal/journal"
)

type runStepLister interface {
	Steps(ctx context.Context, runID string) ([]journal.Step, error)
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show previous setup runs recorded in the journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled in the configuration")
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunSteps(cmd, store, args[0])
			}

			runs, err := store.ListRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Command,
					run.StartedAt.Local().Format(time.DateTime),
					run.Fingerprint,
					strings.Join(run.Groups, ", "),
					run.Variant,
					run.Outcome,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Command", "Started", "Fingerprint", "Cleaned Up", "Variant", "Outcome"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func printRunSteps(cmd *cobra.Command, store runStepLister, runID string) error {
	steps, err := store.Steps(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No recorded steps for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(steps))
	for _, step := range steps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", step.Seq),
			step.Kind,
			step.Target,
			step.Status,
			step.Detail,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Action", "Target", "Status", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
