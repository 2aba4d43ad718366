package util

import (
	"context"
	"sync"
	"time"
)

// FanOut runs fn for every item on a fixed pool of workers, each call under
// its own timeout. Errors go to onErr and the item's results are dropped.
// Output order is not stable.
func FanOut[T, R any](
	ctx context.Context,
	items []T,
	workers int,
	timeout time.Duration,
	fn func(context.Context, T) ([]R, error),
	onErr func(T, error),
) []R {
	if len(items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	outCh := make(chan []R, len(items))
	workCh := make(chan T)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for it := range workCh {
				cctx, cancel := context.WithTimeout(ctx, timeout)
				out, err := fn(cctx, it)
				cancel()
				if err != nil {
					if onErr != nil {
						onErr(it, err)
					}
					continue
				}
				if len(out) > 0 {
					outCh <- out
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, it := range items {
			select {
			case <-ctx.Done():
				return
			case workCh <- it:
			}
		}
	}()

	wg.Wait()
	close(outCh)

	var all []R
	for batch := range outCh {
		all = append(all, batch...)
	}
	return all
}
