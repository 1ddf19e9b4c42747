package environment

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Sample describes one finished run.
type Sample struct {
	Outcome string
	Steps   uint64
	Elapsed time.Duration
}

// PerformanceStats accumulates interpreter counters across runs.
type PerformanceStats struct {
	enabled atomic.Bool

	mu         sync.Mutex
	runs       uint64
	steps      uint64
	wall       time.Duration
	byOutcome  map[string]uint64
	lastSample Sample
}

func newPerformanceStats() *PerformanceStats {
	p := &PerformanceStats{byOutcome: make(map[string]uint64)}
	p.enabled.Store(true)
	return p
}

// Enabled reports whether counters are being collected.
func (p *PerformanceStats) Enabled() bool {
	return p.enabled.Load()
}

// SetEnabled toggles collection. Counters are kept when disabled.
func (p *PerformanceStats) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Record adds s to the counters. It is a no-op while disabled.
func (p *PerformanceStats) Record(s Sample) {
	if !p.Enabled() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs++
	p.steps += s.Steps
	p.wall += s.Elapsed
	p.byOutcome[s.Outcome]++
	p.lastSample = s
}

// Runs returns the number of recorded runs for outcome, or all runs when
// outcome is empty.
func (p *PerformanceStats) Runs(outcome string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if outcome == "" {
		return p.runs
	}
	return p.byOutcome[outcome]
}

// Line renders the latest sample and the running totals.
func (p *PerformanceStats) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.lastSample
	return fmt.Sprintf(
		"perf: %s in %s, %d steps (total %d runs, %d steps, %s)",
		s.Outcome,
		s.Elapsed.Round(time.Microsecond),
		s.Steps,
		p.runs,
		p.steps,
		p.wall.Round(time.Microsecond),
	)
}
