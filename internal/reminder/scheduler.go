package reminder

import (
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"jarvis/internal/speech"
)

// Scheduler owns one waiting goroutine per pending reminder. Firing speaks
// the message and removes the entry; cancellation comes only from ctx
// (process shutdown), in which case the store keeps the entry for the next
// restore.
type Scheduler struct {
	store   *Store
	speaker speech.Speaker

	wg sync.WaitGroup
}

func NewScheduler(store *Store, speaker speech.Speaker) *Scheduler {
	return &Scheduler{store: store, speaker: speaker}
}

// Schedule persists {when, message} and starts its waiting task. A store
// failure is logged and swallowed: the in-memory timer still fires on time,
// the durable record is just stale until the next mutation.
func (sc *Scheduler) Schedule(ctx context.Context, when time.Time, message string) {
	r := Reminder{When: when, Message: message}
	if err := sc.store.Add(r); err != nil {
		log.Warn("Failed to persist reminder", "err", err)
	}
	sc.spawn(ctx, r)
}

// Restore reloads the store, drops entries whose time has passed (no
// catch-up: a missed reminder is discarded, not fired late), rewrites the
// store to exactly the surviving future entries, and restarts their waiting
// tasks. Returns how many were rescheduled.
func (sc *Scheduler) Restore(ctx context.Context) (int, error) {
	rs, err := sc.store.List()
	if err != nil {
		return 0, fmt.Errorf("restore reminders: %w", err)
	}

	now := time.Now()
	var future []Reminder
	for _, r := range rs {
		if r.When.After(now) {
			future = append(future, r)
		}
	}

	// Replace, not append: the surviving entries are already persisted.
	if err := sc.store.Replace(future); err != nil {
		return 0, fmt.Errorf("restore reminders: %w", err)
	}
	for _, r := range future {
		sc.spawn(ctx, r)
	}
	return len(future), nil
}

func (sc *Scheduler) spawn(ctx context.Context, r Reminder) {
	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()

		timer := time.NewTimer(time.Until(r.When))
		defer timer.Stop()

		select {
		case <-ctx.Done():
			// Entry stays persisted for the next restore.
			return
		case <-timer.C:
		}

		if err := sc.speaker.Speak("Reminder: " + r.Message); err != nil {
			log.Warn("Failed to speak reminder", "err", err)
		}
		if err := sc.store.Remove(r); err != nil {
			log.Warn("Failed to remove fired reminder", "err", err)
		}
	}()
}

// Wait blocks until every in-flight waiting task has returned. Tests and
// shutdown use it after cancelling the context.
func (sc *Scheduler) Wait() { sc.wg.Wait() }
