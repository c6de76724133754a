package slotlock

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

type Sweeper interface {
	DeleteExpiredSlotLocks(ctx context.Context, now time.Time) (int64, error)
}

// Janitor periodically reclaims locks whose TTL elapsed without an
// appointment being bound. Acquire already reuses stale rows lazily;
// the sweep just keeps the table from growing.
type Janitor struct {
	store    Sweeper
	interval time.Duration
	stop     chan struct{}
}

func NewJanitor(store Sweeper, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	go j.run()
}

func (j *Janitor) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := j.store.DeleteExpiredSlotLocks(context.Background(), timezone.Now())
			if err != nil {
				log.Println("slot lock janitor error:", err)
				continue
			}
			if n > 0 {
				log.Printf("slot lock janitor reclaimed %d locks", n)
			}
		case <-j.stop:
			return
		}
	}
}

func (j *Janitor) Stop() {
	close(j.stop)
}
