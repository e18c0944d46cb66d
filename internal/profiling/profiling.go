package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU timers. Names are dotted, "package.Operation".

// Sample is the accumulated time and call count of one name.
type Sample struct {
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	frame  = make(map[string]Sample)
	totals = make(map[string]Sample)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("pipeline.Tick")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		add(frame, name, d)
		add(totals, name, d)
		mu.Unlock()
	}
}

func add(m map[string]Sample, name string, d time.Duration) {
	s := m[name]
	s.Total += d
	s.Calls++
	m[name] = s
}

// ResetFrame clears the per-frame samples. Run totals are kept.
func ResetFrame() {
	mu.Lock()
	clear(frame)
	mu.Unlock()
}

// Reset clears everything.
func Reset() {
	mu.Lock()
	clear(frame)
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the current frame's durations.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frame))
	for k, v := range frame {
		out[k] = v.Total
	}
	return out
}

// Totals returns a copy of the samples accumulated since the last Reset.
func Totals() map[string]Sample {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Sample, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up the current frame's durations whose name starts
// with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frame {
		if strings.HasPrefix(k, prefix) {
			sum += v.Total
		}
	}
	return sum
}

// TopN formats the n slowest names of the current frame.
// Example: "pipeline.Tick:4.2ms, meshing.greedy:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+FormatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// FormatMs renders d in milliseconds with one decimal, dropping ".0".
func FormatMs(d time.Duration) string {
	s := fmt.Sprintf("%.1f", float64(d.Microseconds())/1000.0)
	return strings.TrimSuffix(s, ".0") + "ms"
}
