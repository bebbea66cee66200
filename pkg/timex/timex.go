// Package timex provides small time-based helpers: debounced and
// throttled function wrappers and human-readable relative timestamps.
package timex

import (
	"fmt"
	"sync"
	"time"
)

// Debounce returns a wrapper around fn that delays invocation until wait
// has elapsed since the most recent call. Each call cancels any pending
// invocation and reschedules with the latest argument, so only the last
// call within a burst executes.
func Debounce[T any](wait time.Duration, fn func(T)) func(T) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() {
			fn(arg)
		})
	}
}

// Throttle returns a wrapper around fn that invokes it immediately on the
// first call, then drops calls until limit has elapsed. Trailing calls
// inside the window are discarded, not queued.
func Throttle[T any](limit time.Duration, fn func(T)) func(T) {
	var (
		mu   sync.Mutex
		last time.Time
	)

	return func(arg T) {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < limit {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()

		fn(arg)
	}
}

// RelTime formats the elapsed time since t as a coarse human-readable
// string. Anything older than a week falls back to an absolute date.
func RelTime(t time.Time) string {
	return relTime(t, time.Now())
}

func relTime(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
