package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/lk2023060901/myai/internal/prompt"
	"github.com/spf13/cobra"
)

func newPromptCmd(r *runner) *cobra.Command {
	var copyOut bool
	cmd := &cobra.Command{
		Use:   "prompt <step>",
		Short: "Print a ready-to-paste prompt for a step of the last plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("step must be a number: %q", args[0])
			}
			return r.app.runPrompt(cmd.Context(), n, copyOut)
		},
	}
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "also copy the prompt to the clipboard")
	return cmd
}

func (a *App) runPrompt(ctx context.Context, step int, copyOut bool) error {
	lp, err := a.loadLastPlan(ctx)
	if err != nil {
		return err
	}
	g, err := lp.step(step)
	if err != nil {
		return err
	}

	text := prompt.Build(lp.Goal, g.Title, g.Tools, a.Lang.Get())
	fmt.Fprintln(a.Out, text)

	if copyOut {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		okColor.Fprintln(a.Err, "✅ Copied to clipboard")
	}
	return nil
}
