package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounterIncrement(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("webhook_requests_total", map[string]string{"type": "event"})
	r.IncrementCounter("webhook_requests_total", map[string]string{"type": "event"})
	r.IncrementCounter("webhook_requests_total", map[string]string{"type": "card"})

	assert.Equal(t, 2.0, r.GetCounterValue("webhook_requests_total", map[string]string{"type": "event"}))
	assert.Equal(t, 1.0, r.GetCounterValue("webhook_requests_total", map[string]string{"type": "card"}))
	assert.Equal(t, 0.0, r.GetCounterValue("webhook_requests_total", map[string]string{"type": "missing"}))
}

func TestCounterAddNegative(t *testing.T) {
	r := NewRegistry()

	r.AddToCounter("http_requests_active", 1, nil)
	r.AddToCounter("http_requests_active", 1, nil)
	r.AddToCounter("http_requests_active", -1, nil)

	assert.Equal(t, 1.0, r.GetCounterValue("http_requests_active", nil))
}

func TestTimerAggregation(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("agent_chat_duration", 10*time.Millisecond, nil)
	r.RecordTimer("agent_chat_duration", 30*time.Millisecond, nil)
	r.RecordTimer("agent_chat_duration", 20*time.Millisecond, nil)

	timer := r.GetTimer("agent_chat_duration", nil)
	assert.NotNil(t, timer)
	assert.Equal(t, int64(3), timer.Count)
	assert.InDelta(t, 10.0, timer.Min, 0.5)
	assert.InDelta(t, 30.0, timer.Max, 0.5)
	assert.InDelta(t, 20.0, timer.Average, 0.5)
}

func TestTimerAbsent(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.GetTimer("never_recorded", nil))
}

func TestMetricKeyLabelOrder(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("http_responses_total", map[string]string{"method": "POST", "status_code": "200"})
	r.IncrementCounter("http_responses_total", map[string]string{"status_code": "200", "method": "POST"})

	assert.Equal(t, 2.0, r.GetCounterValue("http_responses_total", map[string]string{"method": "POST", "status_code": "200"}))
}

func TestSnapshotAndReset(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("a", nil)
	r.IncrementCounter("b", map[string]string{"k": "v"})

	snap := r.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, 1.0, snap["a"])

	r.Reset()
	assert.Empty(t, r.Snapshot())
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.IncrementCounter("concurrent", nil)
				r.RecordTimer("concurrent_timer", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1600.0, r.GetCounterValue("concurrent", nil))
	assert.Equal(t, int64(1600), r.GetTimer("concurrent_timer", nil).Count)
}
