package experiment

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// RunAll runs every config on up to workers goroutines. Results keep the
// order of cfgs. The first error cancels the remaining runs. Observers are
// shared by all workers.
func (r *Runner) RunAll(ctx context.Context, cfgs []Config, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = r.Run(ctx, cfgs[idx])
			if errs[idx] != nil {
				cancel()
			}
		}(i)
	}
	wg.Wait()

	// A failing run cancels its siblings; report the cause, not the
	// cancellations it triggered.
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
