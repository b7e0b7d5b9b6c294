package dayengine

import (
	"context"

	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

// LiveDay streams the record of the watcher's current day. It emits once
// at start, again whenever the watcher moves to a new day and whenever the
// controller writes the current day. Only the latest value is kept: a slow
// reader sees the newest record, not a backlog. The channel closes when
// ctx ends.
func LiveDay(ctx context.Context, w *Watcher, c *Controller) <-chan models.DayRecord {
	out := make(chan models.DayRecord, 1)
	wake := make(chan struct{}, 1)
	poke := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	unsubscribe := w.Subscribe(func(string) { poke() })
	stopChanges := c.OnChange(func(date string) {
		if date == w.Current() {
			poke()
		}
	})
	poke()

	go func() {
		defer close(out)
		defer unsubscribe()
		defer stopChanges()

		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}

			key := w.Current()
			if key == "" {
				continue
			}
			rec, err := c.Get(key)
			if err != nil {
				logger.Warn("Failed to load live day", "date", key, "err", err)
				continue
			}

			// Replace any value the reader has not taken yet.
			select {
			case <-out:
			default:
			}
			out <- rec
		}
	}()

	return out
}
