package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/circuit-extractor/cmd/circuit-extractor/ui"
	"github.com/spherical/circuit-extractor/internal/pipeline"
	"github.com/spherical/circuit-extractor/internal/process"
)

// inspectRow is one enriched row in --json output.
type inspectRow struct {
	Row     int               `json:"row"`
	Derived map[string]string `json:"derived"`
	Subsets []string          `json:"subsets"`
}

// inspectOutput is the --json shape of the inspect command.
type inspectOutput struct {
	RunID  string          `json:"runId"`
	Input  string          `json:"input"`
	Report pipeline.Report `json:"report"`
	Rows   []inspectRow    `json:"rows"`
}

// newInspectCmd creates the inspect subcommand.
func newInspectCmd() *cobra.Command {
	var (
		keywords keywordFlags
		limit    int
		matched  bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the values extracted from each row and the subsets it lands in",
		Long: `Inspect runs the same extraction as process but writes nothing. It
prints every row's derived values (ae2_value, outer_value, unit_val,
instance_val, routing_instance) and whether the row is in subset A, B or C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			input := args[0]
			if err := keywords.resolve(); err != nil {
				return err
			}

			svc := process.NewService(logger, cfg.Processing)
			resp, err := runService(ctx, input, keywords, svc.Inspect)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", filepath.Base(input), err)
			}

			membership := subsetMembership(resp.Result.Subsets)
			rows := make([]inspectRow, 0, len(resp.Result.Enriched))
			for _, e := range resp.Result.Enriched {
				subsets := membership[e.Index]
				if matched && len(subsets) == 0 {
					continue
				}
				derived := make(map[string]string, len(pipeline.DerivedColumns))
				for i, f := range e.Derived.Values() {
					if f.Present {
						derived[pipeline.DerivedColumns[i]] = f.Value
					}
				}
				rows = append(rows, inspectRow{Row: e.Index + 1, Derived: derived, Subsets: subsets})
			}

			if outputJSON {
				return printJSON(inspectOutput{
					RunID:  resp.RunID.String(),
					Input:  input,
					Report: resp.Report,
					Rows:   rows,
				})
			}

			shown := rows
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}

			headers := append([]string{"Row"}, pipeline.DerivedColumns...)
			headers = append(headers, "Subsets")
			cells := make([][]string, len(shown))
			for i, r := range shown {
				line := []string{strconv.Itoa(r.Row)}
				for _, col := range pipeline.DerivedColumns {
					line = append(line, ui.Truncate(r.Derived[col], 24))
				}
				cells[i] = append(line, strings.Join(r.Subsets, ","))
			}
			ui.Table(headers, cells)

			if len(shown) < len(rows) {
				ui.Step("%d more rows not shown (use --limit 0 for all)", len(rows)-len(shown))
			}
			printReport(resp.Report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&keywords.instance, "instance", "i", "", "instance keyword, matched literally (e.g. ae2)")
	cmd.Flags().StringVarP(&keywords.outer, "outer", "u", "", `outer keyword; spaces also match "-" and "_" (e.g. "outer -1002")`)
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&matched, "matched", false, "only show rows in at least one subset")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort if processing takes longer")

	return cmd
}

// subsetMembership maps a row index to the names of the subsets holding it.
func subsetMembership(s pipeline.Subsets) map[int][]string {
	out := make(map[int][]string)
	mark := func(name string, rows []pipeline.EnrichedRow) {
		for _, r := range rows {
			out[r.Index] = append(out[r.Index], name)
		}
	}
	mark("A", s.A)
	mark("B", s.B)
	mark("C", s.C)
	return out
}
