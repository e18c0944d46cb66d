package main

import "time"

// tickLimiter paces the host loop to a fixed interval.
type tickLimiter struct {
	interval time.Duration
	next     time.Time
}

func newTickLimiter(interval time.Duration) *tickLimiter {
	return &tickLimiter{interval: interval}
}

// Wait sleeps until the next tick is due. Short remainders are spun to
// keep high tick rates accurate.
func (l *tickLimiter) Wait() {
	if l.interval <= 0 {
		l.next = time.Time{}
		return
	}
	if l.next.IsZero() {
		l.next = time.Now().Add(l.interval)
	} else {
		l.next = l.next.Add(l.interval)
	}

	for {
		remaining := time.Until(l.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		if time.Until(l.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of bursting to catch up
	if late := -time.Until(l.next); late > l.interval {
		l.next = time.Now().Add(l.interval)
	}
}
