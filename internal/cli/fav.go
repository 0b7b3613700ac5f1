package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/lk2023060901/myai/internal/plan"
	"github.com/lk2023060901/myai/internal/prefs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFavCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite tools",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorite tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderFavorites(r.app.Out, r.app.Favs.List())
			return nil
		},
	}

	var tool plan.Tool
	toggle := &cobra.Command{
		Use:   "toggle <name>",
		Short: "Add a tool to favorites, or remove it when already there",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := tool
			t.Name = strings.Join(args, " ")
			return r.app.toggleFavorite(cmd.Context(), t)
		},
	}
	toggle.Flags().StringVar(&tool.Link, "link", "", "tool link, when the tool is not in the last plan")
	toggle.Flags().StringVar(&tool.Icon, "icon", "", "tool icon URL")

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Merge local favorites with the ones stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.requireSession(); err != nil {
				return err
			}
			stop := a.spin("Syncing...")
			pulled, pushed, err := a.API.SyncFavorites(cmd.Context(), a.Favs)
			stop()
			if err != nil {
				return fmt.Errorf("sync favorites: %w", friendly(err))
			}
			okColor.Fprintf(a.Out, "✅ %d pulled, %d pushed, %d total\n", pulled, pushed, a.Favs.Count())
			return nil
		},
	}

	cmd.AddCommand(list, toggle, sync)
	return cmd
}

// toggleFavorite fills the link and icon from the last plan when the flags
// leave them empty, and mirrors the change to the server when signed in.
func (a *App) toggleFavorite(ctx context.Context, t plan.Tool) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if lp, err := a.loadLastPlan(ctx); err == nil {
		if known, ok := lp.findTool(t.Name); ok {
			if t.Link == "" {
				t.Link = known.Link
			}
			if t.Icon == "" {
				t.Icon = known.Icon
			}
		}
	}

	added := a.Favs.Toggle(ctx, t)
	if added {
		okColor.Fprintf(a.Out, "★ %s added to favorites\n", t.Name)
	} else {
		fmt.Fprintf(a.Out, "☆ %s removed from favorites\n", t.Name)
	}

	if a.API.SignedIn() {
		var err error
		if added {
			_, err = a.API.AddRemoteFavorite(ctx, prefs.FromTool(t))
		} else {
			_, err = a.API.RemoveRemoteFavorite(ctx, t.Name)
		}
		if err != nil {
			a.Log.Debug("remote favorite update failed", zap.Error(err))
		}
	}
	return nil
}
