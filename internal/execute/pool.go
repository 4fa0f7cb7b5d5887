package execute

import (
	"context"
	"sync"
)

// Job is one unit of work in an evaluation pass, typically a single sandbox
// execution.
type Job func(ctx context.Context) error

// RunPool executes jobs with at most maxWorkers concurrently. A cancelled
// context stops new jobs from being scheduled; in-flight sandboxes observe
// the same context and wind down on their own. Returns all errors, including
// the context's error when jobs were skipped.
func RunPool(ctx context.Context, maxWorkers int, jobs []Job) []error {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, maxWorkers)

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(j Job) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := j(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()
	return errs
}
