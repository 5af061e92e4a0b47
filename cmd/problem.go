package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/egelkids/egel/internal/problemgen"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Generate practice problems without starting a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		opName, _ := cmd.Flags().GetString("op")
		op, err := problemgen.ParseOperation(opName)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetInt("level")
		if level < 1 || level > problemgen.MaxLevel {
			return fmt.Errorf("level must be between 1 and %d", problemgen.MaxLevel)
		}
		allow, _ := cmd.Flags().GetBool("remainder")
		seed, _ := cmd.Flags().GetUint64("seed")
		count, _ := cmd.Flags().GetInt("count")
		format, _ := cmd.Flags().GetString("format")

		src := problemgen.NewRandomSource()
		if seed != 0 {
			src = problemgen.NewSource(seed)
		}
		gen := problemgen.NewGenerator(src)

		problems := make([]problemgen.Problem, 0, max(count, 1))
		for range max(count, 1) {
			problems = append(problems, gen.Generate(op, level, allow))
		}
		return writeProblems(cmd.OutOrStdout(), problems, format)
	},
}

func writeProblems(w io.Writer, problems []problemgen.Problem, format string) error {
	switch format {
	case "text":
		for _, p := range problems {
			fmt.Fprintf(w, "%s = %s\n", p.Text(), p.AnswerText())
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(problems)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(problems)
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func init() {
	problemCmd.Flags().String("op", "add", "Operation: add, sub, mul or div")
	problemCmd.Flags().Int("level", 1, "Difficulty level")
	problemCmd.Flags().Bool("remainder", false, "Allow division problems with a remainder")
	problemCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	problemCmd.Flags().IntP("count", "n", 1, "Number of problems")
	problemCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
}
