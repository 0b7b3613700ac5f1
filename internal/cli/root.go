package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type runner struct {
	opts    Options
	streams Streams
	app     *App
}

// NewRootCmd builds the command tree. The returned close func releases the
// state opened by the command that ran.
func NewRootCmd(s Streams) (*cobra.Command, func()) {
	r := &runner{streams: s}

	root := &cobra.Command{
		Use:           "myai",
		Short:         "myai: find the right AI tools for every step of a goal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if r.opts.NoColor || os.Getenv("NO_COLOR") != "" {
				color.NoColor = true
			}
			app, err := Open(cmd.Context(), r.opts, r.streams)
			if err != nil {
				return err
			}
			r.app = app
			return nil
		},
	}
	root.SetIn(s.In)
	root.SetOut(s.Out)
	root.SetErr(s.Err)

	f := root.PersistentFlags()
	f.StringVar(&r.opts.Dir, "dir", "", "state directory (default: user config dir/myai)")
	f.StringVar(&r.opts.Server, "server", "", "backend URL, overrides the profile")
	f.BoolVarP(&r.opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	f.BoolVar(&r.opts.NoColor, "no-color", false, "disable colors")

	root.AddCommand(
		newPlanCmd(r),
		newPromptCmd(r),
		newFavCmd(r),
		newRecentCmd(r),
		newLangCmd(r),
		newCatalogCmd(r),
		newAuthCmd(r),
		newShellCmd(r),
		newConfigCmd(r),
	)

	closeFn := func() {
		if r.app != nil {
			_ = r.app.Close()
			r.app = nil
		}
	}
	return root, closeFn
}

// Execute runs the CLI with the process streams and returns the exit code.
func Execute(ctx context.Context, args []string) int {
	s := Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	root, closeFn := NewRootCmd(s)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	closeFn()
	if err != nil {
		errColor.Fprintln(s.Err, "🚨 "+err.Error())
		return 1
	}
	return 0
}
