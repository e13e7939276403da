package workspace

import "time"

// Scheduler defers a callback. It exists so tests can drive the post-save
// refresh delay with a manual clock, and so pending callbacks can be stopped
// on logout.
type Scheduler interface {
	// AfterFunc runs fn after d on its own goroutine and returns a stop
	// function. Stop reports whether it prevented the call from running.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
