package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/lk2023060901/myai/internal/prefs"
	"github.com/olekukonko/tablewriter"
)

var (
	titleColor = color.New(color.FgHiCyan, color.Bold)
	starColor  = color.New(color.FgHiYellow)
	dimColor   = color.New(color.Faint)
	okColor    = color.New(color.FgHiGreen)
	errColor   = color.New(color.FgHiRed)
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	return t
}

// renderGroups prints one row per tool; the step cells are filled on the
// first row of each step only.
func renderGroups(w io.Writer, goal string, groups []plan.Group, favs plan.NameSet) {
	if goal != "" {
		titleColor.Fprintf(w, "🎯 %s\n", goal)
	}
	if len(groups) == 0 {
		fmt.Fprintln(w, "🤷 No tools match.")
		return
	}

	t := newTable(w, "#", "Step", "Tool", "Link")
	for i, g := range groups {
		for j, tool := range g.Tools {
			num, title := "", ""
			if j == 0 {
				num, title = strconv.Itoa(i+1), g.Title
			}
			name := tool.Name
			if favs != nil && favs.Has(tool.Name) {
				name = starColor.Sprint("★ ") + name
			}
			t.Append([]string{num, title, name, tool.Link})
		}
		if len(g.Tools) == 0 {
			t.Append([]string{strconv.Itoa(i + 1), g.Title, "", ""})
		}
	}
	t.Render()
	dimColor.Fprintf(w, "%d steps, %d tools\n", len(groups), plan.ToolCount(groups))
}

func renderFavorites(w io.Writer, list []prefs.FavTool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "🤷 No favorites yet.")
		return
	}
	t := newTable(w, "#", "Tool", "Link")
	for i, f := range list {
		t.Append([]string{strconv.Itoa(i + 1), f.Name, f.Link})
	}
	t.Render()
}

func renderRecents(w io.Writer, list []string) {
	if len(list) == 0 {
		fmt.Fprintln(w, "🤷 No recent prompts.")
		return
	}
	for i, p := range list {
		fmt.Fprintf(w, "%d. %s\n", i+1, p)
	}
}

func renderCategories(w io.Writer, cats []types.Category) {
	t := newTable(w, "Capability", "Label", "Tools")
	for _, c := range cats {
		t.Append([]string{string(c.ID), c.Label, strconv.FormatInt(c.Count, 10)})
	}
	t.Render()
}

func renderTools(w io.Writer, res *types.ListResult) {
	t := newTable(w, "Tool", "Rating", "Tags", "Description")
	for _, tool := range res.Items {
		rating := "-"
		if tool.Rating != nil {
			rating = strconv.FormatFloat(*tool.Rating, 'f', 1, 64)
		}
		t.Append([]string{tool.Name, rating, strings.Join(tool.Tags, " "), truncate(tool.Description, 60)})
	}
	t.Render()
	end := res.Offset + len(res.Items)
	dimColor.Fprintf(w, "%d-%d of %d\n", min(res.Offset+1, end), end, res.Total)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
