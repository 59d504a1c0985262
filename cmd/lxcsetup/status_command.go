package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lxcsetup/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show detected installations and host readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			r, err := ctx.buildRunner(nil, false)
			if err != nil {
				return err
			}
			outcome, set, err := r.Probe()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fingerprint: %s\n", outcome.Fingerprint)
			if outcome.NoOp {
				fmt.Fprintln(out, "Installed versions: none detected")
			} else {
				fmt.Fprintf(out, "Installed versions: %s\n", strings.Join(outcome.Groups, ", "))

				rows := make([][]string, 0, len(set))
				for _, step := range set {
					rows = append(rows, []string{string(step.Kind), step.Target, step.Group})
				}
				fmt.Fprintln(out, "Pending cleanup actions:")
				fmt.Fprintln(out, renderTable(
					[]string{"Action", "Target", "Version"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			}

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "failed"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(out, "Host readiness:")
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}
}
