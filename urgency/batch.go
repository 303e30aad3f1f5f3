// ABOUTME: Concurrent urgency recalculation over many accounts
// ABOUTME: Per-account failures are collected; the batch always completes
package urgency

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/harperreed/sherpa/logger"
	"github.com/harperreed/sherpa/models"
	"golang.org/x/sync/errgroup"
)

type BatchOptions struct {
	// Concurrency bounds parallel scoring. Zero means runtime.NumCPU().
	Concurrency int
}

type BatchError struct {
	Index     int    `json:"index"`
	AccountID string `json:"account_id,omitempty"`
	Err       error  `json:"-"`
	Message   string `json:"error"`
}

func (e BatchError) Error() string {
	return e.Message
}

type BatchResult struct {
	Scores map[string]*Breakdown `json:"scores"`
	Errors []BatchError          `json:"errors"`
}

// BatchRecalculate scores accounts with the default policy.
func BatchRecalculate(ctx context.Context, accounts []models.Account, icp *models.ICPProfile, now time.Time, opts BatchOptions) BatchResult {
	return defaultEngine.BatchRecalculate(ctx, accounts, icp, now, opts)
}

// BatchRecalculate scores every account against the same now. Accounts
// that fail validation, or are skipped because ctx ended, are reported in
// Errors in input order.
func (e *Engine) BatchRecalculate(ctx context.Context, accounts []models.Account, icp *models.ICPProfile, now time.Time, opts BatchOptions) BatchResult {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	res := BatchResult{Scores: make(map[string]*Breakdown, len(accounts)), Errors: []BatchError{}}
	var mu sync.Mutex
	fail := func(i int, id string, err error) {
		mu.Lock()
		res.Errors = append(res.Errors, BatchError{Index: i, AccountID: id, Err: err, Message: err.Error()})
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range accounts {
		idx := i
		account := &accounts[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(idx, account.ID, err)
				return nil
			}
			b, err := e.Score(account, icp, now)
			if err != nil {
				logger.Warn("urgency: skipping account", "index", idx, "error", err)
				fail(idx, account.ID, err)
				return nil
			}
			mu.Lock()
			res.Scores[account.ID] = b
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(res.Errors, func(i, j int) bool { return res.Errors[i].Index < res.Errors[j].Index })
	logger.Info("urgency: batch recalculated", "scored", len(res.Scores), "errors", len(res.Errors))
	return res
}

// Ranked returns the breakdowns ordered by overall score, highest first,
// with ties broken by account id.
func (r BatchResult) Ranked() []*Breakdown {
	out := make([]*Breakdown, 0, len(r.Scores))
	for _, b := range r.Scores {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Overall != out[j].Overall {
			return out[i].Overall > out[j].Overall
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}
