package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/circuit-extractor/cmd/circuit-extractor/ui"
	"github.com/spherical/circuit-extractor/internal/pipeline"
	"github.com/spherical/circuit-extractor/internal/process"
)

// processOutput is the --json shape of the process command.
type processOutput struct {
	RunID      string          `json:"runId"`
	Input      string          `json:"input"`
	Output     string          `json:"output"`
	Bytes      int             `json:"bytes"`
	Report     pipeline.Report `json:"report"`
	DurationMs int64           `json:"durationMs"`
}

// newProcessCmd creates the process subcommand.
func newProcessCmd() *cobra.Command {
	var (
		keywords keywordFlags
		output   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Filter and group a sheet, writing processed_output next to it",
		Long: `Process reads the sheet, keeps rows whose description contains the
instance keyword together with a unit shared with rows that also contain the
outer keyword, adds the routing-instance rows those units point at, and
writes the grouped rows to processed_output.xlsx (or .csv for csv input).`,
		Example: `  circuit-extractor process circuits.xlsx --instance ae2 --outer "outer -1002"
  circuit-extractor process dump.csv --instance ae2 --outer outer-1002 -o grouped.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			input := args[0]
			if err := keywords.resolve(); err != nil {
				return err
			}

			svc := process.NewService(logger, cfg.Processing)
			resp, err := runService(ctx, input, keywords, svc.Process)
			if err != nil {
				return fmt.Errorf("process %s: %w", filepath.Base(input), err)
			}

			dest := output
			if dest == "" {
				dest = filepath.Join(filepath.Dir(input), resp.Artifact.Name)
			}
			if err := os.WriteFile(dest, resp.Artifact.Data, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			logger.Info().
				Str("run_id", resp.RunID.String()).
				Str("output", dest).
				Int("bytes", resp.Artifact.Size()).
				Msg("Output written")

			if outputJSON {
				return printJSON(processOutput{
					RunID:      resp.RunID.String(),
					Input:      input,
					Output:     dest,
					Bytes:      resp.Artifact.Size(),
					Report:     resp.Report,
					DurationMs: resp.Duration.Milliseconds(),
				})
			}

			printReport(resp.Report)
			if resp.Report.OutputRows == 0 {
				ui.Warning("No rows matched; %s has the header row only", filepath.Base(dest))
			}
			ui.Success("Wrote %s (%d bytes) in %s", dest, resp.Artifact.Size(), ui.FormatDuration(resp.Duration))
			return nil
		},
	}

	cmd.Flags().StringVarP(&keywords.instance, "instance", "i", "", "instance keyword, matched literally (e.g. ae2)")
	cmd.Flags().StringVarP(&keywords.outer, "outer", "u", "", `outer keyword; spaces also match "-" and "_" (e.g. "outer -1002")`)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: processed_output.<ext> beside the input)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort if processing takes longer")

	return cmd
}

func printReport(r pipeline.Report) {
	ui.Section("Summary")
	ui.KeyValue("Input rows", strconv.Itoa(r.InputRows))
	ui.KeyValue("Instance + outer matches", strconv.Itoa(r.SubsetA))
	ui.KeyValue("Rows sharing a unit", strconv.Itoa(r.SubsetB))
	ui.KeyValue("Routing-instance rows", strconv.Itoa(r.SubsetC))
	ui.KeyValue("Unit groups", strconv.Itoa(r.UnitGroups))
	ui.KeyValue("Routing groups", strconv.Itoa(r.RoutingGroups))
	ui.KeyValue("Output rows", fmt.Sprintf("%d (%d blank)", r.OutputRows, r.Separators))
	fmt.Println()
}
