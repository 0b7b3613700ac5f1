package plan

// ToGroups folds plan items into one Group per distinct task, in the order
// tasks first appear. Within a task tools are unique by name; a later
// duplicate replaces the earlier entry's attributes but keeps its position.
func ToGroups(items []Item) []Group {
	type bucket struct {
		title string
		index map[string]int
		tools []Tool
	}

	var order []*bucket
	byTitle := make(map[string]*bucket)

	for _, it := range items {
		b, ok := byTitle[it.Task]
		if !ok {
			b = &bucket{title: it.Task, index: make(map[string]int)}
			byTitle[it.Task] = b
			order = append(order, b)
		}
		for _, t := range it.Tools {
			if i, seen := b.index[t.Name]; seen {
				b.tools[i] = t
				continue
			}
			b.index[t.Name] = len(b.tools)
			b.tools = append(b.tools, t)
		}
	}

	groups := make([]Group, 0, len(order))
	for _, b := range order {
		tools := b.tools
		if tools == nil {
			tools = []Tool{}
		}
		groups = append(groups, Group{Title: b.title, Tools: tools})
	}
	return groups
}

// Resolve returns the server-provided groups when present, otherwise the
// groups derived from the flat plan.
func Resolve(resp *Response) []Group {
	if resp == nil {
		return nil
	}
	if len(resp.Groups) > 0 {
		return resp.Groups
	}
	return ToGroups(resp.Plan)
}
