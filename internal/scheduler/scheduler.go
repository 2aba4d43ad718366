// Package scheduler runs periodic background work.
package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task right away and then on each tick until ctx ends. Runs
// never overlap: a tick that fires during a run is dropped. Errors are
// logged and do not stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	if interval <= 0 {
		log.Printf("[%s] disabled: interval=%s", name, interval)
		return
	}
	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
