package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// view is the client-side filter applied to a plan.
type view struct {
	Search        string
	FavoritesOnly bool
}

func newPlanCmd(r *runner) *cobra.Command {
	var (
		v    view
		lang string
	)
	cmd := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Break a goal into steps with recommended tools",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.runPlan(cmd.Context(), strings.Join(args, " "), lang, v)
		},
	}
	cmd.Flags().StringVarP(&v.Search, "search", "s", "", "only show steps or tools matching this term")
	cmd.Flags().BoolVarP(&v.FavoritesOnly, "favs", "f", false, "only show favorite tools")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "answer language (en|bg); detected from the goal by default")
	return cmd
}

// runPlan fetches a plan, records the goal and prints the filtered view.
func (a *App) runPlan(ctx context.Context, goal, langTag string, v view) error {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return fmt.Errorf("goal is required")
	}

	var lang locale.Locale
	if langTag != "" {
		parsed, ok := locale.Parse(langTag)
		if !ok {
			return fmt.Errorf("unsupported language %q", langTag)
		}
		lang = parsed
		a.Lang.Set(ctx, lang)
	} else {
		lang = a.Lang.Detect(ctx, goal)
	}

	stop := a.spin("Planning...")
	resp, err := a.API.Plan(ctx, goal, lang)
	stop()
	if err != nil {
		return fmt.Errorf("plan: %w", friendly(err))
	}

	groups := plan.Resolve(resp)
	a.Recents.Push(ctx, goal)
	if a.API.SignedIn() {
		if _, err := a.API.PushRemoteRecent(ctx, goal); err != nil {
			a.Log.Debug("remote recent push failed", zap.Error(err))
		}
	}
	a.saveLastPlan(ctx, lastPlan{Goal: goal, Groups: groups})

	a.showPlan(goal, groups, v)
	return nil
}

func (a *App) showPlan(goal string, groups []plan.Group, v view) {
	favs := a.Favs.Names()
	renderGroups(a.Out, goal, plan.Filter(groups, v.Search, v.FavoritesOnly, favs), favs)
}
