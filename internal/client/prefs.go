package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lk2023060901/myai/internal/prefs"
)

type favoritesData struct {
	Favorites []prefs.FavTool `json:"favorites"`
}

type recentsData struct {
	Recents []string `json:"recents"`
}

// RemoteFavorites returns the favorites stored for the signed-in user.
func (c *Client) RemoteFavorites(ctx context.Context) ([]prefs.FavTool, error) {
	var out envelope[favoritesData]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me/favorites"}, &out); err != nil {
		return nil, err
	}
	return out.Data.Favorites, nil
}

func (c *Client) AddRemoteFavorite(ctx context.Context, t prefs.FavTool) ([]prefs.FavTool, error) {
	var out envelope[favoritesData]
	if err := c.do(ctx, request{method: http.MethodPost, path: "/me/favorites", body: t}, &out); err != nil {
		return nil, err
	}
	return out.Data.Favorites, nil
}

func (c *Client) RemoveRemoteFavorite(ctx context.Context, name string) ([]prefs.FavTool, error) {
	var out envelope[favoritesData]
	err := c.do(ctx, request{method: http.MethodDelete, path: "/me/favorites/" + url.PathEscape(name)}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data.Favorites, nil
}

// RemoteRecents returns the recent prompts stored for the signed-in user.
func (c *Client) RemoteRecents(ctx context.Context) ([]string, error) {
	var out envelope[recentsData]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me/recents"}, &out); err != nil {
		return nil, err
	}
	return out.Data.Recents, nil
}

func (c *Client) PushRemoteRecent(ctx context.Context, prompt string) ([]string, error) {
	var out envelope[recentsData]
	body := map[string]string{"prompt": prompt}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/me/recents", body: body}, &out); err != nil {
		return nil, err
	}
	return out.Data.Recents, nil
}

// RemoveRemoteRecent drops prompt from the remote history. An empty prompt
// clears it.
func (c *Client) RemoveRemoteRecent(ctx context.Context, prompt string) ([]string, error) {
	req := request{method: http.MethodDelete, path: "/me/recents"}
	if prompt != "" {
		req.query = url.Values{"prompt": {prompt}}
	}
	var out envelope[recentsData]
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Data.Recents, nil
}

// SyncFavorites merges local and remote favorites in both directions:
// remote-only entries are added to local, local-only entries are uploaded.
// It returns how many entries moved each way.
func (c *Client) SyncFavorites(ctx context.Context, local *prefs.Favorites) (pulled, pushed int, err error) {
	remote, err := c.RemoteFavorites(ctx)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]struct{}, len(remote))
	for _, t := range remote {
		seen[t.Name] = struct{}{}
		if !local.Has(t.Name) {
			local.Add(ctx, t)
			pulled++
		}
	}
	for _, t := range local.List() {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		if _, err := c.AddRemoteFavorite(ctx, t); err != nil {
			return pulled, pushed, err
		}
		pushed++
	}
	return pulled, pushed, nil
}
