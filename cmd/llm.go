package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/egelkids/egel/internal/llm"
	"github.com/egelkids/egel/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if purpose != "" {
			events = lo.Filter(events, func(ev store.LLMEventRecord, _ int) bool { return ev.Purpose == purpose })
		}
		writeLLMList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), ev)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		repo := e.store.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		writeLLMStats(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func writeLLMList(w io.Writer, events []store.LLMEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-19s  %-8s  %-28s  %6s  %6s  %6s  %s\n",
		"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, ev := range events {
		fmt.Fprintf(w, "%-5d  %-19s  %-8s  %-28s  %6d  %6d  %6d  %s\n",
			ev.ID,
			ev.Timestamp.Local().Format(timeLayout),
			ev.Purpose,
			truncate(ev.Model, 28),
			ev.InputTokens,
			ev.OutputTokens,
			ev.LatencyMs,
			lo.Ternary(ev.Success, "✓", "✗"),
		)
	}
}

func writeLLMEvent(w io.Writer, ev *store.LLMEventRecord) {
	fields := [][2]string{
		{"ID", strconv.FormatInt(ev.ID, 10)},
		{"Time", ev.Timestamp.Local().Format(timeLayout)},
		{"Provider", ev.Provider},
		{"Model", ev.Model},
		{"Purpose", ev.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", ev.LatencyMs)},
		{"Success", strconv.FormatBool(ev.Success)},
	}
	if ev.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", ev.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", f[1])
	}

	for _, section := range []struct{ title, body string }{
		{"REQUEST", ev.RequestBody},
		{"RESPONSE", ev.ResponseBody},
	} {
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(w, "\n%s\n%s\n%s\n", sep, section.title, sep)
		fmt.Fprintln(w, lo.Ternary(section.body != "", section.body, "(not captured)"))
	}
}

func writeLLMStats(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	rule := strings.Repeat("─", 72)
	fmt.Fprintf(w, "Usage by purpose\n%s\n", rule)
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
	for _, st := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %8d\n",
			st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
	}
	fmt.Fprintf(w, "%s\n%-16s  %6d  %10d  %10d\n", rule, "TOTAL",
		lo.SumBy(byPurpose, func(s store.LLMUsageStats) int { return s.Calls }),
		lo.SumBy(byPurpose, func(s store.LLMUsageStats) int { return s.InputTokens }),
		lo.SumBy(byPurpose, func(s store.LLMUsageStats) int { return s.OutputTokens }))

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintf(w, "\nEstimated cost (USD)\n%s\n", rule)
	var total float64
	var unknown []string
	for _, mu := range byModel {
		cost := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unknown = append(unknown, mu.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d calls  %10s\n", truncate(mu.Model, 32), mu.Calls, cost)
	}
	label := lo.Ternary(len(unknown) > 0, "TOTAL (partial)", "TOTAL")
	fmt.Fprintf(w, "%s\n%-32s  %17s\n", rule, label, formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose ("+llm.PurposeExplain+" or "+llm.PurposeTrace+")")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
