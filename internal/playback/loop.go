package playback

import (
	"context"
	"sync"
	"time"
)

// Waker receives scheduled ticks.
type Waker interface {
	Wake(t Tick)
}

type wakeup struct {
	id   uint64
	tick Tick
}

// Loop is a Scheduler that delivers ticks on the goroutine running Run, so the
// engine is only ever touched from that goroutine.
type Loop struct {
	wakes  chan wakeup
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	nextID uint64
	timers map[uint64]*time.Timer
}

// NewLoop returns an idle Loop.
func NewLoop() *Loop {
	return &Loop{
		wakes:  make(chan wakeup),
		done:   make(chan struct{}),
		timers: map[uint64]*time.Timer{},
	}
}

// Schedule implements Scheduler.
func (l *Loop) Schedule(after time.Duration, t Tick) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	w := wakeup{id: l.nextID, tick: t}
	l.timers[w.id] = time.AfterFunc(after, func() {
		select {
		case l.wakes <- w:
		case <-l.done:
		}
	})
}

// Run delivers ticks to w until none are pending or ctx is cancelled.
// A Loop cannot be reused after Run returns.
func (l *Loop) Run(ctx context.Context, w Waker) error {
	defer l.shutdown()
	for l.Pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next := <-l.wakes:
			l.mu.Lock()
			delete(l.timers, next.id)
			l.mu.Unlock()
			w.Wake(next.tick)
		}
	}
	return nil
}

// Pending returns the number of scheduled ticks not yet delivered.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) shutdown() {
	l.once.Do(func() {
		close(l.done)
		l.mu.Lock()
		defer l.mu.Unlock()
		for id, timer := range l.timers {
			timer.Stop()
			delete(l.timers, id)
		}
	})
}
