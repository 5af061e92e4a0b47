package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/egelkids/egel/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "egel",
	Short: "Adaptive arithmetic practice for kids",
	Long: "egel is a terminal app for practicing addition, subtraction, multiplication\n" +
		"and division. Problems grow with the learner, one digit at a time.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		return app.Run(cmd.Context(), app.Options{
			Deps:           e.practiceDeps(),
			AllowRemainder: e.cfg.Play.AllowRemainder,
		})
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EGEL_DB_PATH)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.egel/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(problemCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
