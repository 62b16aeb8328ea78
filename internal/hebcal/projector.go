package hebcal

import (
	"sync"
	"time"
)

// DefaultCacheCapacity bounds a Projector's memo table unless the caller
// chooses otherwise.
const DefaultCacheCapacity = 1000

// Projector performs Hebrew-to-Gregorian projection with a bounded,
// instance-owned memo cache. Conversion dominates the cost of both windowed
// catch-up and calendar-grid rendering, so repeated projections of the same
// date must not recompute.
//
// The cache evicts the oldest inserted key when full (FIFO). Projector is
// safe for concurrent use.
type Projector struct {
	mu       sync.Mutex
	capacity int
	memo     map[HDate]*time.Time
	order    []HDate
}

// NewProjector returns a Projector whose cache holds at most capacity
// entries. A non-positive capacity falls back to DefaultCacheCapacity.
func NewProjector(capacity int) *Projector {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Projector{
		capacity: capacity,
		memo:     make(map[HDate]*time.Time, capacity),
	}
}

// Gregorian returns the Gregorian day the Hebrew date falls on, memoized.
// Repeated calls with identical arguments return the same pointer until
// ClearCache. The input is assumed valid, as with the package function.
func (p *Projector) Gregorian(d HDate) *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	if hit, ok := p.memo[d]; ok {
		return hit
	}

	g := Gregorian(d)
	if len(p.memo) >= p.capacity {
		oldest := p.order[0]
		p.order = p.order[1:]
		delete(p.memo, oldest)
	}
	v := &g
	p.memo[d] = v
	p.order = append(p.order, d)
	return v
}

// ClearCache empties the memo table.
func (p *Projector) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memo = make(map[HDate]*time.Time, p.capacity)
	p.order = nil
}

// CacheSize returns the number of memoized projections.
func (p *Projector) CacheSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.memo)
}
