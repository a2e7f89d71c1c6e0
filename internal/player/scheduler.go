package player

import (
	"context"
	"errors"
	"sync"
	"time"
)

const DefaultPollInterval = 100 * time.Millisecond

var ErrSchedulerRunning = errors.New("scheduler already running")

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers; tests swap in a manual one.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// MediaClock is the playback time source sampled by a Scheduler.
type MediaClock interface {
	CurrentTime() time.Duration
	Paused() bool
}

type SchedulerOptions struct {
	Interval time.Duration // defaults to DefaultPollInterval
	Clock    Clock         // defaults to SystemClock
}

// Scheduler feeds time samples from a MediaClock into a sample func at
// a fixed cadence. Samples are skipped while the media is paused.
type Scheduler struct {
	media    MediaClock
	sample   func(time.Duration)
	interval time.Duration
	clock    Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(
	media MediaClock,
	sample func(time.Duration),
	opts SchedulerOptions,
) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	return &Scheduler{
		media:    media,
		sample:   sample,
		interval: opts.Interval,
		clock:    opts.Clock,
	}
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start launches the polling loop. It stops when ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrSchedulerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := s.clock.NewTicker(s.interval)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				s.Tick()
			}
		}
	}()

	return nil
}

// Stop ends the polling loop and waits for it to exit. The sample func
// must not be blocked on a lock held by the caller of Stop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Tick takes one sample synchronously and reports whether it did.
func (s *Scheduler) Tick() bool {
	if s.media.Paused() {
		return false
	}
	s.sample(s.media.CurrentTime())
	return true
}
