package cli

import (
	"fmt"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/spf13/cobra"
)

func newLangCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:       "lang [en|bg]",
		Short:     "Show or set the display language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(locale.EN), string(locale.BG)},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if len(args) == 0 {
				fmt.Fprintln(a.Out, a.Lang.Get())
				return nil
			}
			l, ok := locale.Parse(args[0])
			if !ok || !a.Lang.Set(cmd.Context(), l) {
				return fmt.Errorf("unsupported language %q (use en or bg)", args[0])
			}
			okColor.Fprintf(a.Out, "✅ Language set to %s\n", l)
			return nil
		},
	}
}
