package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/egelkids/egel/internal/render"
	"github.com/egelkids/egel/internal/scoring"
)

var renderCmd = &cobra.Command{
	Use:     "render OP A B",
	Short:   "Fetch a worked-solution diagram from the rendering service",
	Example: "  egel render div 183 12 --stage 2 --out diagram.svg",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, a, b, err := parseOperands(args)
		if err != nil {
			return err
		}
		stage, _ := cmd.Flags().GetInt("stage")
		out, _ := cmd.Flags().GetString("out")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		r := e.renderer()
		if r == nil {
			return fmt.Errorf("rendering needs service.base_url (EGEL_SERVICE_BASE_URL)")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Service.Timeout*time.Duration(max(e.cfg.Service.MaxAttempts, 1)))
		defer cancel()

		params := render.DisplayFromConfig(e.cfg.Render).For(op, a, b, scoring.ClampStage(stage))
		d, err := r.Render(ctx, params)
		if err != nil {
			return err
		}

		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(d.SVG)
			return err
		}
		if err := os.WriteFile(out, d.SVG, 0o644); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
		e.log.WithFields(logrus.Fields{"path": out, "cached": d.Cached}).Info("diagram written")
		return nil
	},
}

func init() {
	renderCmd.Flags().Int("stage", int(scoring.StageFull), "Hint stage to draw (0-3)")
	renderCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
}
