package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egelkids/egel/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:     "trace OP A B",
	Short:   "Print the worked solution of a problem as JSON",
	Example: "  egel trace div 183 12\n  egel trace add 48 27 --source llm",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, a, b, err := parseOperands(args)
		if err != nil {
			return err
		}
		source, _ := cmd.Flags().GetString("source")
		lines, _ := cmd.Flags().GetBool("lines")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		tracer, err := e.tracer(source)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.LLM.Timeout+e.cfg.Service.Timeout)
		defer cancel()

		tr, err := tracer.Trace(ctx, trace.Request{Op: op, A: a, B: b})
		if err != nil {
			return fmt.Errorf("trace: %w", err)
		}

		out := cmd.OutOrStdout()
		if lines {
			for _, l := range tr.Lines() {
				fmt.Fprintln(out, l)
			}
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tr)
	},
}

func init() {
	traceCmd.Flags().String("source", "auto", "Trace source: local, remote, llm or auto")
	traceCmd.Flags().Bool("lines", false, "Print the solution as readable lines instead of JSON")
}
