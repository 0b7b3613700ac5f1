package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/plan"
	"go.uber.org/zap"
)

const keyLastPlan = "myai:last_plan"

// lastPlan is the most recent plan, kept so that later invocations can
// build step prompts and toggle its tools.
type lastPlan struct {
	Goal   string       `json:"goal"`
	Groups []plan.Group `json:"groups"`
}

var errNoPlan = errors.New("no plan yet, run `myai plan <goal>` first")

func (a *App) saveLastPlan(ctx context.Context, lp lastPlan) {
	raw, err := json.Marshal(lp)
	if err == nil {
		err = a.store.Set(ctx, keyLastPlan, raw)
	}
	if err != nil {
		a.Log.Debug("save last plan failed", zap.Error(err))
	}
}

func (a *App) loadLastPlan(ctx context.Context) (*lastPlan, error) {
	raw, err := a.store.Get(ctx, keyLastPlan)
	if kv.IsNotFound(err) {
		return nil, errNoPlan
	}
	if err != nil {
		return nil, err
	}
	var lp lastPlan
	if err := json.Unmarshal(raw, &lp); err != nil {
		return nil, errNoPlan
	}
	return &lp, nil
}

// step returns the 1-based step n.
func (lp *lastPlan) step(n int) (plan.Group, error) {
	if n < 1 || n > len(lp.Groups) {
		return plan.Group{}, fmt.Errorf("step must be between 1 and %d", len(lp.Groups))
	}
	return lp.Groups[n-1], nil
}

// findTool looks name up across all steps.
func (lp *lastPlan) findTool(name string) (plan.Tool, bool) {
	for _, g := range lp.Groups {
		for _, t := range g.Tools {
			if t.Name == name {
				return t, true
			}
		}
	}
	return plan.Tool{}, false
}
