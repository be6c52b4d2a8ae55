package resolve

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zero-day-ai/cvssel/cvss"
)

// Finding is one unit of batch work: the candidates harvested for a
// vulnerability record.
type Finding struct {
	ID         string
	Candidates []*cvss.Vector
}

// Result pairs a finding with its resolution or error.
type Result struct {
	FindingID  string
	Resolution *Resolution
	Err        error
}

// Batch resolves findings in parallel with at most limit workers (GOMAXPROCS
// when limit <= 0). Results keep the order of findings. Per-finding errors are
// reported in Result.Err; the returned error is non-nil only when ctx is
// cancelled, in which case unprocessed findings carry ctx.Err().
func (r *Resolver) Batch(ctx context.Context, findings []Finding, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(findings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range findings {
		results[i].FindingID = f.ID
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			res, err := r.Resolve(gctx, f.Candidates)
			results[i].Resolution = res
			results[i].Err = err
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}
