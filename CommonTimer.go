package dyn4j

import "time"

/// Timer for profiling.
type Timer struct {
	start time.Time
}

func MakeTimer() Timer {
	return Timer{start: time.Now()}
}

/// Reset the timer.
func (t *Timer) Reset() {
	t.start = time.Now()
}

/// Get the time since construction or the last reset.
func (t Timer) GetMilliseconds() float64 {
	return float64(time.Since(t.start).Nanoseconds()) / 1e6
}
