package badgerstore

import (
	"context"
	"sync"

	"github.com/edupilot/edupilot-api/internal/store"
)

// watchSnapshots emits a fresh snapshot on every change to the given prefix,
// starting with the current state. The channel closes when the subscription
// is cancelled or the context expires; re-subscribing requires a new Watch
// call.
func watchSnapshots[T any](
	ctx context.Context,
	d *DB,
	prefix string,
	load func() (T, error),
) (<-chan T, store.CancelFunc, error) {
	initial, err := load()
	if err != nil {
		return nil, nil, err
	}

	sig, unsubscribe := d.notifier.subscribe(prefix)
	out := make(chan T, 1)
	done := make(chan struct{})

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}

	go func() {
		defer close(out)

		select {
		case out <- initial:
		case <-done:
			return
		case <-ctx.Done():
			cancel()
			return
		}

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case <-sig:
				snapshot, err := load()
				if err != nil {
					d.logger.Error("failed to load watch snapshot",
						"prefix", prefix,
						"error", err)
					continue
				}
				select {
				case out <- snapshot:
				case <-done:
					return
				case <-ctx.Done():
					cancel()
					return
				}
			}
		}
	}()

	return out, cancel, nil
}
