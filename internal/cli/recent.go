package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRecentCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Manage recent goals",
	}

	var remote bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent goals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if !remote {
				renderRecents(a.Out, a.Recents.List())
				return nil
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			goals, err := a.API.RemoteRecents(cmd.Context())
			if err != nil {
				return fmt.Errorf("recent list: %w", friendly(err))
			}
			renderRecents(a.Out, goals)
			return nil
		},
	}
	list.Flags().BoolVar(&remote, "remote", false, "list the history stored on the server")

	rm := &cobra.Command{
		Use:   "rm <goal|number>",
		Short: "Remove a recent goal by text or by its list number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			target := strings.Join(args, " ")
			current := a.Recents.List()
			if n, err := strconv.Atoi(target); err == nil && n >= 1 && n <= len(current) {
				target = current[n-1]
			}
			left := a.Recents.Remove(cmd.Context(), target)
			if len(left) == len(current) {
				return fmt.Errorf("%q is not in the recent list", target)
			}
			a.mirrorRecentRemoval(cmd.Context(), target)
			renderRecents(a.Out, left)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget all recent goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			a.Recents.Clear(cmd.Context())
			a.mirrorRecentRemoval(cmd.Context(), "")
			okColor.Fprintln(a.Out, "✅ Recent goals cleared")
			return nil
		},
	}

	cmd.AddCommand(list, rm, clearCmd)
	return cmd
}

// mirrorRecentRemoval applies a local removal to the server history when
// signed in. An empty goal clears it. Failures only reach the debug log.
func (a *App) mirrorRecentRemoval(ctx context.Context, goal string) {
	if !a.API.SignedIn() {
		return
	}
	if _, err := a.API.RemoveRemoteRecent(ctx, goal); err != nil {
		a.Log.Debug("remote recent removal failed", zap.String("goal", goal), zap.Error(err))
	}
}
