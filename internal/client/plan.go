package client

import (
	"context"
	"net/http"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/plan"
)

// Plan asks the backend to plan goal. Starting a new Plan cancels the one
// in flight; the older call then returns ErrSuperseded, even when its
// response had already arrived.
func (c *Client) Plan(ctx context.Context, goal string, lang locale.Locale) (*plan.Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.planMu.Lock()
	if c.planCancel != nil {
		c.planCancel()
	}
	c.planCancel = cancel
	gen := c.planGen.Add(1)
	c.planMu.Unlock()

	var resp plan.Response
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/plan",
		body:   plan.Request{UserGoal: goal, Language: string(lang)},
	}, &resp)

	c.planMu.Lock()
	current := c.planGen.Load() == gen
	if current {
		c.planCancel = nil
	}
	c.planMu.Unlock()
	if !current {
		return nil, ErrSuperseded
	}

	if err != nil {
		return nil, err
	}
	return &resp, nil
}
