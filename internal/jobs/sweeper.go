package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer deactivates no-show reservations.
type Expirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper runs the stale reservation sweep on a cron schedule.
type Sweeper struct {
	cron    *cron.Cron
	expirer Expirer
	timeout time.Duration
	now     func() time.Time
}

func NewSweeper(expirer Expirer, schedule string) (*Sweeper, error) {
	s := &Sweeper{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		expirer: expirer,
		timeout: time.Minute,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
	log.Printf("sweeper_started next=%s", s.Next().Format(time.RFC3339))
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("sweeper_stop_timeout err=%v", ctx.Err())
	}
}

func (s *Sweeper) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	return s.expirer.ExpireStale(ctx, s.now())
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.RunOnce(ctx)
	if err != nil {
		log.Printf("sweep_failed err=%v duration_ms=%d", err, time.Since(start).Milliseconds())
		return
	}
	log.Printf("sweep_done expired=%d duration_ms=%d", n, time.Since(start).Milliseconds())
}
