package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// BloomRebuilder reloads the post bloom filter from the store.
type BloomRebuilder interface {
	InitBloomFilter(ctx context.Context) error
}

type rebuildBloomWorker struct {
	rebuilder BloomRebuilder
	interval  time.Duration
}

// NewRebuildBloomWorker returns a worker that rebuilds the filter every
// interval. Deleted posts stay in the filter until the next rebuild.
func NewRebuildBloomWorker(r BloomRebuilder, interval time.Duration) *rebuildBloomWorker {
	return &rebuildBloomWorker{
		rebuilder: r,
		interval:  interval,
	}
}

func (w *rebuildBloomWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logrus.Info("bloom rebuild interval not set, RebuildBloomWorker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.rebuild(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down RebuildBloomWorker")
			return
		}
	}
}

func (w *rebuildBloomWorker) rebuild(ctx context.Context) {
	start := time.Now()
	if err := w.rebuilder.InitBloomFilter(ctx); err != nil {
		logrus.Errorf("RebuildBloomWorker: rebuild failed: %v", err)
		return
	}
	logrus.Debugf("RebuildBloomWorker: bloom filter rebuilt in %s", time.Since(start))
}
