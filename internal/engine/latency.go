package engine

import (
	"fmt"
	"time"
)

// Latency aggregates min/max/avg of observed durations. Advisory
// instrumentation only: plain field updates, no locking, owned by the
// sequencer loop.
type Latency struct {
	count int64
	min   time.Duration
	max   time.Duration
	sum   time.Duration
}

// Observe folds one duration into the aggregate.
func (l *Latency) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	if l.count == 0 || d < l.min {
		l.min = d
	}
	if d > l.max {
		l.max = d
	}
	l.sum += d
	l.count++
}

// Stats is the aggregate snapshot for the terminal summary.
type Stats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Stats returns the current aggregate.
func (l *Latency) Stats() Stats {
	s := Stats{Count: l.count, Min: l.min, Max: l.max}
	if l.count > 0 {
		s.Avg = l.sum / time.Duration(l.count)
	}
	return s
}

func (s Stats) String() string {
	if s.Count == 0 {
		return "n=0"
	}
	return fmt.Sprintf("n=%d min=%s max=%s avg=%s", s.Count, s.Min, s.Max, s.Avg)
}
