package worker

import (
	"sync/atomic"
	"testing"
)

func TestRequestDeliversOnDispatch(t *testing.T) {
	p := New(2, nil)
	defer p.Close()

	var got []int
	for i := range 10 {
		Request(p, func() int { return i * i }, func(v int) { got = append(got, v) })
	}
	if len(got) != 0 {
		t.Fatal("callback ran before Dispatch")
	}
	p.Flush()
	if len(got) != 10 {
		t.Fatalf("got %d results, want 10", len(got))
	}
	sum := 0
	for _, v := range got {
		sum += v
	}
	if sum != 285 {
		t.Errorf("sum of squares = %d, want 285", sum)
	}
	if p.Pending() != 0 {
		t.Errorf("Pending = %d after Flush", p.Pending())
	}
}

func TestFlushFollowsChainedRequests(t *testing.T) {
	p := New(4, nil)
	defer p.Close()

	depth := 0
	var next func(int)
	next = func(v int) {
		depth = v
		if v < 5 {
			Request(p, func() int { return v + 1 }, next)
		}
	}
	Request(p, func() int { return 1 }, next)
	p.Flush()
	if depth != 5 {
		t.Errorf("chain stopped at %d, want 5", depth)
	}
}

func TestPanickingTaskIsDropped(t *testing.T) {
	p := New(1, nil)
	defer p.Close()

	var ran atomic.Bool
	Request(p, func() int { panic("boom") }, func(int) { ran.Store(true) })
	Request(p, func() int { return 1 }, func(int) {})
	p.Flush()
	if ran.Load() {
		t.Error("callback ran for a panicking task")
	}
	if p.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", p.Pending())
	}
}

func TestRequestAfterClose(t *testing.T) {
	p := New(1, nil)
	p.Close()
	p.Close()
	Request(p, func() int { return 1 }, func(int) { t.Error("callback ran after close") })
	p.Flush()
}

func TestDispatchCount(t *testing.T) {
	p := New(1, nil)
	Request(p, func() string { return "a" }, func(string) {})
	Request(p, func() string { return "b" }, func(string) {})
	p.Close()
	if n := p.Dispatch(); n != 2 {
		t.Errorf("Dispatch ran %d callbacks, want 2", n)
	}
}
