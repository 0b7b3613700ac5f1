package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/locale"
)

// ToolsQuery filters Tools. Zero values are left to the backend defaults.
type ToolsQuery struct {
	Q        string
	Tag      string
	Cap      string
	Language locale.Locale
	Limit    int
	Offset   int
	Sort     types.SortField
}

func (q ToolsQuery) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("q", q.Q)
	set("tag", q.Tag)
	set("cap", q.Cap)
	set("language", string(q.Language))
	set("sort", string(q.Sort))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// Categories lists the capability categories with their tool counts.
func (c *Client) Categories(ctx context.Context, lang locale.Locale) ([]types.Category, error) {
	var out struct {
		Categories []types.Category `json:"categories"`
	}
	q := url.Values{}
	if lang != "" {
		q.Set("language", string(lang))
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/categories", query: q}, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// Tools pages through the catalog.
func (c *Client) Tools(ctx context.Context, q ToolsQuery) (*types.ListResult, error) {
	var out types.ListResult
	if err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/tools", query: q.values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
