package profiling

import (
	"testing"
	"time"
)

func TestTrackAndReset(t *testing.T) {
	p := New()
	stop := p.Track("a")
	time.Sleep(time.Millisecond)
	stop()
	p.Track("b")()

	snap := p.Snapshot()
	if snap["a"] < time.Millisecond {
		t.Errorf("a = %v, want >= 1ms", snap["a"])
	}
	if _, ok := snap["b"]; !ok {
		t.Error("b not recorded")
	}

	p.ResetFrame()
	if len(p.Snapshot()) != 0 {
		t.Error("ResetFrame left frame totals")
	}
	if p.Totals()["a"] < time.Millisecond {
		t.Error("ResetFrame cleared run totals")
	}
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	p.Track("x")()
	p.ResetFrame()
	if p.Snapshot() != nil || p.TopN(3) != "" {
		t.Error("nil profiler returned data")
	}
}

func TestTopN(t *testing.T) {
	got := topN(map[string]time.Duration{
		"slow": 4200 * time.Microsecond,
		"fast": 100 * time.Microsecond,
		"mid":  2 * time.Millisecond,
	}, 2)
	if want := "slow:4.2ms, mid:2.0ms"; got != want {
		t.Errorf("topN = %q, want %q", got, want)
	}
}
