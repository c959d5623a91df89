package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates per-frame wall time by stage name. A nil *Profiler records nothing,
// so components can take one optionally.
type Profiler struct {
	mu          sync.Mutex
	frameTotals map[string]time.Duration
	runTotals   map[string]time.Duration
}

// New creates an empty profiler.
func New() *Profiler {
	return &Profiler{
		frameTotals: make(map[string]time.Duration),
		runTotals:   make(map[string]time.Duration),
	}
}

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer prof.Track("terrain.Update")()
func (p *Profiler) Track(name string) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		p.mu.Lock()
		p.frameTotals[name] += d
		p.runTotals[name] += d
		p.mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func (p *Profiler) ResetFrame() {
	if p == nil {
		return
	}
	p.mu.Lock()
	clear(p.frameTotals)
	p.mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.frameTotals))
	for k, v := range p.frameTotals {
		out[k] = v
	}
	return out
}

// Totals returns a copy of totals accumulated since the profiler was created.
func (p *Profiler) Totals() map[string]time.Duration {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.runTotals))
	for k, v := range p.runTotals {
		out[k] = v
	}
	return out
}

// TopN formats the top n durations of the current frame.
// Example: "terrain.streamTick:4.2ms, worker.Dispatch:2.1ms"
func (p *Profiler) TopN(n int) string {
	return topN(p.Snapshot(), n)
}

func topN(totals map[string]time.Duration, n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(totals))
	for k, v := range totals {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", list[i].name, float64(list[i].dur.Microseconds())/1000))
	}
	return strings.Join(parts, ", ")
}

// TopTotals formats the top n durations accumulated over the whole run.
func (p *Profiler) TopTotals(n int) string {
	return topN(p.Totals(), n)
}
