package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/store"
)

// opStats is one row of the stats report.
type opStats struct {
	Op       string  `yaml:"op"`
	Level    int     `yaml:"level"`
	Answered int     `yaml:"answered"`
	Correct  int     `yaml:"correct"`
	Accuracy float64 `yaml:"accuracy"`
	Stars    int     `yaml:"stars"`
}

type statsReport struct {
	Stars  int       `yaml:"stars"`
	Streak int       `yaml:"streak"`
	Ops    []opStats `yaml:"operations"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show levels, stars and accuracy per operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		snap := progress.LoadOrDefault(ctx, e.progress, e.log)
		answered, err := e.store.EventRepo().AnswerStatsByOp(ctx)
		if err != nil {
			return fmt.Errorf("query answer stats: %w", err)
		}
		report := buildStatsReport(snap, answered)

		out := cmd.OutOrStdout()
		switch format {
		case "text":
			writeStatsText(out, report)
			return nil
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(report)
		}
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	},
}

func buildStatsReport(snap progress.Snapshot, answered []store.OpAnswerStats) statsReport {
	byOp := lo.KeyBy(answered, func(s store.OpAnswerStats) string { return s.Op })
	return statsReport{
		Stars:  snap.Stars,
		Streak: snap.Streak,
		Ops: lo.Map(problemgen.Operations, func(op problemgen.Operation, _ int) opStats {
			s := byOp[string(op)]
			return opStats{
				Op:       string(op),
				Level:    snap.Levels.Level(op),
				Answered: s.Answered,
				Correct:  s.Correct,
				Accuracy: s.Accuracy(),
				Stars:    s.Stars,
			}
		}),
	}
}

func writeStatsText(w io.Writer, r statsReport) {
	fmt.Fprintf(w, "Stars: %d   Streak: %d\n\n", r.Stars, r.Streak)
	fmt.Fprintf(w, "%-16s  %5s  %8s  %7s  %8s  %5s\n",
		"Operation", "Level", "Answered", "Correct", "Accuracy", "Stars")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, s := range r.Ops {
		acc := "-"
		if s.Answered > 0 {
			acc = fmt.Sprintf("%.0f%%", s.Accuracy*100)
		}
		fmt.Fprintf(w, "%-16s  %5d  %8d  %7d  %8s  %5d\n",
			problemgen.Operation(s.Op).Label(), s.Level, s.Answered, s.Correct, acc, s.Stars)
	}
}

func init() {
	statsCmd.Flags().StringP("format", "f", "text", "Output format: text or yaml")
}
