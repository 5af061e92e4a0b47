package cmd

import (
	"github.com/spf13/cobra"

	"github.com/egelkids/egel/internal/app"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/screens/practice"
	"github.com/egelkids/egel/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	Example: "  egel play --op div --remainder\n" +
		"  egel play --op sub --mode learn",
	RunE: func(cmd *cobra.Command, args []string) error {
		opName, _ := cmd.Flags().GetString("op")
		op, err := problemgen.ParseOperation(opName)
		if err != nil {
			return err
		}
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := session.ParseMode(modeName)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		allow := e.cfg.Play.AllowRemainder
		if cmd.Flags().Changed("remainder") {
			allow, _ = cmd.Flags().GetBool("remainder")
		}

		return app.Run(cmd.Context(), app.Options{
			Deps:           e.practiceDeps(),
			AllowRemainder: allow,
			Start:          &practice.Options{Mode: mode, Op: op, AllowRemainder: allow},
		})
	},
}

func init() {
	playCmd.Flags().String("op", "add", "Operation: add, sub, mul or div")
	playCmd.Flags().String("mode", "play", "Mode: play or learn")
	playCmd.Flags().Bool("remainder", false, "Allow division problems with a remainder")
}
