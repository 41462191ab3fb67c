package service

import (
	"sort"
	"sync"
	"time"
)

// Operation names recorded by ConfigService.
const (
	OpSubmitProposals = "submit_proposals"
	OpListProposals   = "list_proposals"
	OpListSettings    = "list_settings"
)

// MetricsCollector tracks timing of store operations
type MetricsCollector struct {
	mu  sync.RWMutex
	ops map[string]*opStats
}

type opStats struct {
	startTime time.Time
	endTime   time.Time
	count     int
	failures  int
	totalTime time.Duration
}

// OperationMetrics contains timing information for an operation
type OperationMetrics struct {
	Name           string    `json:"name"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Count          int       `json:"count"`
	Failures       int       `json:"failures"`
	ProcessingTime int64     `json:"processing_time_ms"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{ops: make(map[string]*opStats)}
}

// Record adds one finished operation that began at start.
func (mc *MetricsCollector) Record(op string, start time.Time, err error) {
	end := time.Now()

	mc.mu.Lock()
	defer mc.mu.Unlock()

	s, ok := mc.ops[op]
	if !ok {
		s = &opStats{startTime: start}
		mc.ops[op] = s
	}
	s.count++
	if err != nil {
		s.failures++
	}
	s.endTime = end
	s.totalTime += end.Sub(start)
}

// GetMetrics returns current metrics for all operations, sorted by name.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make([]OperationMetrics, 0, len(mc.ops))
	for name, s := range mc.ops {
		out = append(out, OperationMetrics{
			Name:           name,
			StartTime:      s.startTime,
			EndTime:        s.endTime,
			Count:          s.count,
			Failures:       s.failures,
			ProcessingTime: s.totalTime.Milliseconds(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset clears all metrics
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.ops = make(map[string]*opStats)
}
