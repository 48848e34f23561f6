package engine

import (
	"testing"
	"time"
)

func TestLatencyAggregate(t *testing.T) {
	var l Latency
	if s := l.Stats(); s.Count != 0 || s.String() != "n=0" {
		t.Errorf("empty stats = %+v", s)
	}

	l.Observe(10 * time.Millisecond)
	l.Observe(30 * time.Millisecond)
	l.Observe(20 * time.Millisecond)
	l.Observe(-time.Millisecond) // ignored

	s := l.Stats()
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if s.Min != 10*time.Millisecond {
		t.Errorf("min = %s, want 10ms", s.Min)
	}
	if s.Max != 30*time.Millisecond {
		t.Errorf("max = %s, want 30ms", s.Max)
	}
	if s.Avg != 20*time.Millisecond {
		t.Errorf("avg = %s, want 20ms", s.Avg)
	}
}
