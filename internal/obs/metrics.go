package obs

import (
	"sort"
	"strings"
	"sync"
)

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// MemMeter keeps running totals in memory. Counters are summed; histograms
// keep count and sum. Series are keyed by name plus sorted labels, e.g.
// `requests_total{method="GET",status="200"}`.
type MemMeter struct {
	mu    sync.Mutex
	sums  map[string]float64
	count map[string]int
}

func NewMemMeter() *MemMeter {
	return &MemMeter{sums: make(map[string]float64), count: make(map[string]int)}
}

func (m *MemMeter) Counter(name string, value float64, labels ...Label) {
	k := seriesKey(name, labels)
	m.mu.Lock()
	m.sums[k] += value
	m.mu.Unlock()
}

func (m *MemMeter) Histogram(name string, value float64, labels ...Label) {
	k := seriesKey(name, labels)
	m.mu.Lock()
	m.sums[k+"_sum"] += value
	m.count[k+"_count"]++
	m.mu.Unlock()
}

// Snapshot returns a copy of every series.
func (m *MemMeter) Snapshot() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.sums)+len(m.count))
	for k, v := range m.sums {
		out[k] = v
	}
	for k, v := range m.count {
		out[k] = float64(v)
	}
	return out
}

func seriesKey(name string, labels []Label) string {
	if len(labels) == 0 {
		return name
	}
	ls := make([]Label, len(labels))
	copy(ls, labels)
	sort.Slice(ls, func(i, j int) bool { return ls[i].Key < ls[j].Key })
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, l := range ls {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key)
		b.WriteString(`="`)
		b.WriteString(l.Value)
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}
