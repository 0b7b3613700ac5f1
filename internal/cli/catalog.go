package cli

import (
	"fmt"

	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/client"
	"github.com/lk2023060901/myai/internal/locale"
	"github.com/spf13/cobra"
)

func newCatalogCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the tool catalog",
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List capability categories with tool counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			stop := a.spin("Loading...")
			cats, err := a.API.Categories(cmd.Context(), a.Lang.Get())
			stop()
			if err != nil {
				return fmt.Errorf("categories: %w", friendly(err))
			}
			renderCategories(a.Out, cats)
			return nil
		},
	}

	var (
		q    client.ToolsQuery
		sort string
	)
	tools := &cobra.Command{
		Use:   "tools",
		Short: "Search catalog tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			query := q
			query.Sort = types.SortField(sort)
			if query.Language == "" {
				query.Language = a.Lang.Get()
			}
			stop := a.spin("Loading...")
			res, err := a.API.Tools(cmd.Context(), query)
			stop()
			if err != nil {
				return fmt.Errorf("tools: %w", friendly(err))
			}
			renderTools(a.Out, res)
			return nil
		},
	}
	f := tools.Flags()
	f.StringVarP(&q.Q, "query", "q", "", "text search over name and description")
	f.StringVar(&q.Tag, "tag", "", "exact tag")
	f.StringVar(&q.Cap, "cap", "", "capability, e.g. cap:video-gen")
	f.IntVar(&q.Limit, "limit", 0, "page size (1-100)")
	f.IntVar(&q.Offset, "offset", 0, "page offset")
	f.StringVar(&sort, "sort", "", "rating or name")
	f.Var(newLocaleValue(&q.Language), "lang", "description language (en|bg)")

	cmd.AddCommand(categories, tools)
	return cmd
}

// localeValue is a pflag.Value accepting en or bg.
type localeValue struct{ l *locale.Locale }

func newLocaleValue(l *locale.Locale) *localeValue { return &localeValue{l: l} }

func (v *localeValue) String() string { return string(*v.l) }

func (v *localeValue) Set(s string) error {
	l, ok := locale.Parse(s)
	if !ok {
		return fmt.Errorf("unsupported language %q", s)
	}
	*v.l = l
	return nil
}

func (v *localeValue) Type() string { return "lang" }
