package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// maxTimerSamples bounds per-timer memory for percentile calculation.
const maxTimerSamples = 1000

// Counter is a monotonically updated value with optional labels.
type Counter struct {
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	Labels     map[string]string `json:"labels,omitempty"`
	LastUpdate time.Time         `json:"last_update"`
}

// Timer aggregates duration measurements in milliseconds.
type Timer struct {
	Count   int64   `json:"count"`
	Sum     float64 `json:"sum_ms"`
	Min     float64 `json:"min_ms"`
	Max     float64 `json:"max_ms"`
	Average float64 `json:"avg_ms"`
	P95     float64 `json:"p95_ms,omitempty"`
	samples []float64
}

// Registry keeps all metrics in process memory. There is no exposition
// endpoint; snapshots are read by the health handler and by tests.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	timers   map[string]*Timer
}

func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
		timers:   make(map[string]*Timer),
	}
}

var globalRegistry = NewRegistry()

// GetRegistry returns the process-wide registry.
func GetRegistry() *Registry {
	return globalRegistry
}

func (r *Registry) IncrementCounter(name string, labels map[string]string) {
	r.AddToCounter(name, 1, labels)
}

func (r *Registry) AddToCounter(name string, value float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metricKey(name, labels)
	if c, ok := r.counters[key]; ok {
		c.Value += value
		c.LastUpdate = time.Now()
		return
	}
	r.counters[key] = &Counter{
		Name:       name,
		Value:      value,
		Labels:     copyLabels(labels),
		LastUpdate: time.Now(),
	}
}

func (r *Registry) RecordTimer(name string, duration time.Duration, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metricKey(name, labels)
	ms := float64(duration.Nanoseconds()) / 1e6

	t, ok := r.timers[key]
	if !ok {
		t = &Timer{Min: ms, Max: ms}
		r.timers[key] = t
	}

	t.Count++
	t.Sum += ms
	t.samples = append(t.samples, ms)
	if ms < t.Min {
		t.Min = ms
	}
	if ms > t.Max {
		t.Max = ms
	}
	t.Average = t.Sum / float64(t.Count)
	if len(t.samples) > maxTimerSamples {
		t.samples = t.samples[len(t.samples)-maxTimerSamples:]
	}
	t.P95 = percentile(t.samples, 0.95)
}

// GetCounterValue returns the current value of a counter, or 0 if absent.
func (r *Registry) GetCounterValue(name string, labels map[string]string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.counters[metricKey(name, labels)]; ok {
		return c.Value
	}
	return 0
}

// GetTimer returns a copy of the aggregated timer, or nil if absent.
func (r *Registry) GetTimer(name string, labels map[string]string) *Timer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timers[metricKey(name, labels)]
	if !ok {
		return nil
	}
	cp := *t
	cp.samples = nil
	return &cp
}

// Snapshot returns all counters keyed by their label-qualified names.
func (r *Registry) Snapshot() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]float64, len(r.counters))
	for key, c := range r.counters {
		out[key] = c.Value
	}
	return out
}

// Reset clears all metrics. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = make(map[string]*Counter)
	r.timers = make(map[string]*Timer)
}

// Package-level helpers operating on the global registry.

func IncrementCounter(name string, labels map[string]string) {
	globalRegistry.IncrementCounter(name, labels)
}

func AddToCounter(name string, value float64, labels map[string]string) {
	globalRegistry.AddToCounter(name, value, labels)
}

func RecordTimer(name string, duration time.Duration, labels map[string]string) {
	globalRegistry.RecordTimer(name, duration, labels)
}

func metricKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("{%s=%s}", k, labels[k]))
	}
	return sb.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	cp := make(map[string]string, len(labels))
	for k, v := range labels {
		cp[k] = v
	}
	return cp
}

func percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
