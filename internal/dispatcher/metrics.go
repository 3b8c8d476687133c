package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-binding metrics, keyed by binding label.
	bindingMetrics map[string]*BindingMetrics

	// Outcome counters
	totalKeys    uint64
	totalFired   uint64
	totalPending uint64
	totalNoMatch uint64
	totalDropped uint64
	totalTimeout uint64
	totalErrors  uint64
	totalPanics  uint64

	totalDuration time.Duration
}

// BindingMetrics holds metrics for a specific binding.
type BindingMetrics struct {
	Name          string
	FireCount     uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastFired     time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		bindingMetrics: make(map[string]*BindingMetrics),
	}
}

// RecordKey records one key event and its outcome.
func (m *Metrics) RecordKey(status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalKeys++
	switch status {
	case Pending:
		m.totalPending++
	case NoMatch:
		m.totalNoMatch++
	case Discarded:
		m.totalDropped++
	}
}

// RecordTimeout records a pending sequence flushed by the timeout.
func (m *Metrics) RecordTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalTimeout++
}

// RecordFire records a handler invocation.
func (m *Metrics) RecordFire(name string, duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalFired++
	m.totalDuration += duration
	if failed {
		m.totalErrors++
	}

	bm := m.bindingMetrics[name]
	if bm == nil {
		bm = &BindingMetrics{
			Name:        name,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.bindingMetrics[name] = bm
	}

	bm.FireCount++
	bm.TotalDuration += duration
	bm.LastFired = time.Now()

	if duration < bm.MinDuration {
		bm.MinDuration = duration
	}
	if duration > bm.MaxDuration {
		bm.MaxDuration = duration
	}
	if failed {
		bm.ErrorCount++
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// BindingStats returns metrics for a specific binding.
func (m *Metrics) BindingStats(name string) *BindingMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bm := m.bindingMetrics[name]
	if bm == nil {
		return nil
	}

	// Return a copy
	copy := *bm
	return &copy
}

// TopBindings returns the n most fired bindings.
func (m *Metrics) TopBindings(n int) []*BindingMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bindings := make([]*BindingMetrics, 0, len(m.bindingMetrics))
	for _, bm := range m.bindingMetrics {
		copy := *bm
		bindings = append(bindings, &copy)
	}

	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].FireCount != bindings[j].FireCount {
			return bindings[i].FireCount > bindings[j].FireCount
		}
		return bindings[i].Name < bindings[j].Name
	})

	if n > len(bindings) {
		n = len(bindings)
	}
	return bindings[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bindingMetrics = make(map[string]*BindingMetrics)
	m.totalKeys = 0
	m.totalFired = 0
	m.totalPending = 0
	m.totalNoMatch = 0
	m.totalDropped = 0
	m.totalTimeout = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Keys            uint64
	Fired           uint64
	Pending         uint64
	NoMatch         uint64
	Discarded       uint64
	Timeouts        uint64
	Errors          uint64
	Panics          uint64
	AverageDuration time.Duration
	BindingCount    int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		Keys:         m.totalKeys,
		Fired:        m.totalFired,
		Pending:      m.totalPending,
		NoMatch:      m.totalNoMatch,
		Discarded:    m.totalDropped,
		Timeouts:     m.totalTimeout,
		Errors:       m.totalErrors,
		Panics:       m.totalPanics,
		BindingCount: len(m.bindingMetrics),
		Timestamp:    time.Now(),
	}

	if m.totalFired > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalFired)
	}

	return snapshot
}

// AverageDuration returns the average handler duration for the binding.
func (bm *BindingMetrics) AverageDuration() time.Duration {
	if bm.FireCount == 0 {
		return 0
	}
	return bm.TotalDuration / time.Duration(bm.FireCount)
}
