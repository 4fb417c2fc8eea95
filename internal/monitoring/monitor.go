package monitoring

import (
	"sync"
	"time"
)

// Monitor keeps the latest operational values of the server for the
// dashboard's status view. Counters, plain values and operation snapshots
// are stored apart and flattened on read.
type Monitor struct {
	mu       sync.RWMutex
	started  time.Time
	values   map[string]interface{}
	counters map[string]int
	ops      map[string]operation
	now      func() time.Time
}

// operation is the last recorded run of a named operation
type operation struct {
	fields map[string]interface{}
	at     time.Time
}

// NewMonitor creates an empty monitor whose uptime starts now
func NewMonitor() *Monitor {
	m := &Monitor{now: time.Now}
	m.started = m.now()
	m.clear()
	return m
}

func (m *Monitor) clear() {
	m.values = make(map[string]interface{})
	m.counters = make(map[string]int)
	m.ops = make(map[string]operation)
}

// Set stores a plain value under name
func (m *Monitor) Set(name string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

// IncrementCounter adds one to a counter
func (m *Monitor) IncrementCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordOperation replaces the snapshot of an operation. Its fields are
// reported as <operation>_<field> along with <operation>_last_recorded.
func (m *Monitor) RecordOperation(name string, fields map[string]interface{}) {
	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[name] = operation{fields: copied, at: m.now()}
}

// GetMetric looks a name up in the flattened view
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	value, ok := m.GetMetrics()[name]
	return value, ok
}

// GetMetrics returns a flattened snapshot plus the uptime
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]interface{}, len(m.values)+len(m.counters)+1)
	for k, v := range m.values {
		out[k] = v
	}
	for k, n := range m.counters {
		out[k] = n
	}
	for name, op := range m.ops {
		for k, v := range op.fields {
			out[name+"_"+k] = v
		}
		out[name+"_last_recorded"] = op.at.UTC().Format(time.RFC3339)
	}
	out["uptime_seconds"] = m.now().Sub(m.started).Seconds()
	return out
}

// Reset drops everything except the start time
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}
