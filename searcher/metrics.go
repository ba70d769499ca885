package searcher

import (
	"sync"
	"sync/atomic"
	"time"
)

// SearchMetrics summarizes one Search call.
type SearchMetrics struct {
	StartTime      time.Time
	Duration       time.Duration
	Simulations    int64
	OracleCalls    int64
	TerminalLeaves int64
	DepthCutoffs   int64
	MaxDepth       int64
}

type MetricsCollector interface {
	Start()
	AddSimulation()
	AddOracleCall()
	AddTerminalLeaf()
	AddDepthCutoff()
	ObserveDepth(depth int)
	Complete() SearchMetrics
}

type metricsCollector struct {
	mu             sync.Mutex // guards startTime
	startTime      time.Time
	simulations    atomic.Int64
	oracleCalls    atomic.Int64
	terminalLeaves atomic.Int64
	depthCutoffs   atomic.Int64
	maxDepth       atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

// Start resets every counter so Complete reports per-search totals rather
// than lifetime totals of the collector.
func (m *metricsCollector) Start() {
	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
	m.simulations.Store(0)
	m.oracleCalls.Store(0)
	m.terminalLeaves.Store(0)
	m.depthCutoffs.Store(0)
	m.maxDepth.Store(0)
}

func (m *metricsCollector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *metricsCollector) AddOracleCall() {
	m.oracleCalls.Add(1)
}

func (m *metricsCollector) AddTerminalLeaf() {
	m.terminalLeaves.Add(1)
}

func (m *metricsCollector) AddDepthCutoff() {
	m.depthCutoffs.Add(1)
}

func (m *metricsCollector) ObserveDepth(depth int) {
	d := int64(depth)
	for {
		current := m.maxDepth.Load()
		if current >= d || m.maxDepth.CompareAndSwap(current, d) {
			return
		}
	}
}

func (m *metricsCollector) Complete() SearchMetrics {
	m.mu.Lock()
	start := m.startTime
	m.mu.Unlock()
	return SearchMetrics{
		StartTime:      start,
		Duration:       time.Since(start),
		Simulations:    m.simulations.Load(),
		OracleCalls:    m.oracleCalls.Load(),
		TerminalLeaves: m.terminalLeaves.Load(),
		DepthCutoffs:   m.depthCutoffs.Load(),
		MaxDepth:       m.maxDepth.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (noMetricsCollector) Start()                   {}
func (noMetricsCollector) AddSimulation()           {}
func (noMetricsCollector) AddOracleCall()           {}
func (noMetricsCollector) AddTerminalLeaf()         {}
func (noMetricsCollector) AddDepthCutoff()          {}
func (noMetricsCollector) ObserveDepth(int)         {}
func (noMetricsCollector) Complete() SearchMetrics  { return SearchMetrics{} }
