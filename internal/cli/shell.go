package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/spf13/cobra"
)

const shellHelp = `Type a goal to plan it, or one of:
  :search [term]    filter the current plan; no term clears the filter
  :favs             toggle showing favorite tools only
  :fav <name>       add or remove a favorite
  :prompt <n>       print the prompt for step n (:prompt! n also copies it)
  :recent           list recent goals
  :lang [en|bg]     show or set the language
  :help             this help
  :quit             leave`

func newShellCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session: plan goals and refine the view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.runShell(cmd.Context())
		},
	}
}

// shell keeps the current plan and view between lines.
type shell struct {
	app    *App
	goal   string
	groups []plan.Group
	view   view
}

func (a *App) runShell(ctx context.Context) error {
	sh := &shell{app: a}
	if lp, err := a.loadLastPlan(ctx); err == nil {
		sh.goal, sh.groups = lp.Goal, lp.Groups
	}

	dimColor.Fprintln(a.Out, "myai shell, :help for commands")
	sc := bufio.NewScanner(a.In)
	for {
		fmt.Fprint(a.Out, "myai> ")
		if !sc.Scan() {
			fmt.Fprintln(a.Out)
			return sc.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		quit, err := sh.handle(ctx, strings.TrimSpace(sc.Text()))
		if err != nil {
			errColor.Fprintln(a.Err, "🚨 "+err.Error())
		}
		if quit {
			return nil
		}
	}
}

func (sh *shell) handle(ctx context.Context, line string) (bool, error) {
	a := sh.app
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, ":") {
		if err := a.runPlan(ctx, line, "", sh.view); err != nil {
			return false, err
		}
		if lp, err := a.loadLastPlan(ctx); err == nil {
			sh.goal, sh.groups = lp.Goal, lp.Groups
		}
		return false, nil
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "q", "quit", "exit":
		return true, nil
	case "help", "h", "?":
		fmt.Fprintln(a.Out, shellHelp)
	case "search", "s":
		sh.view.Search = arg
		sh.show()
	case "favs", "f":
		sh.view.FavoritesOnly = !sh.view.FavoritesOnly
		sh.show()
	case "fav":
		if err := a.toggleFavorite(ctx, plan.Tool{Name: arg}); err != nil {
			return false, err
		}
	case "prompt", "p", "prompt!", "p!":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("usage: :prompt <step>")
		}
		return false, a.runPrompt(ctx, n, strings.HasSuffix(name, "!"))
	case "recent", "r":
		renderRecents(a.Out, a.Recents.List())
	case "lang", "l":
		if arg == "" {
			fmt.Fprintln(a.Out, a.Lang.Get())
			return false, nil
		}
		l, ok := locale.Parse(arg)
		if !ok {
			return false, fmt.Errorf("unsupported language %q (use en or bg)", arg)
		}
		a.Lang.Set(ctx, l)
		okColor.Fprintf(a.Out, "✅ Language set to %s\n", l)
	default:
		return false, fmt.Errorf("unknown command :%s, try :help", name)
	}
	return false, nil
}

func (sh *shell) show() {
	if sh.groups == nil {
		dimColor.Fprintln(sh.app.Out, "no plan yet, type a goal")
		return
	}
	sh.app.showPlan(sh.goal, sh.groups, sh.view)
}
