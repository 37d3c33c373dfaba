package schedule

import "time"

// Task is a scheduled unit of work. It runs at most once.
type Task func()

// Handle lets the owner cancel a pending task. Cancel reports whether the
// task was stopped before it ran.
type Handle interface {
	Cancel() bool
}

// Scheduler defers a task by a delay. The simulated payment completion is the
// only production user; tests substitute a manual implementation.
type Scheduler interface {
	Schedule(delay time.Duration, task Task) Handle
}

// TimerScheduler backs Schedule with a one-shot runtime timer. The task runs
// on its own goroutine, so it must do its own locking.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, task Task) Handle {
	return timerHandle{timer: time.AfterFunc(delay, task)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.timer.Stop()
}
