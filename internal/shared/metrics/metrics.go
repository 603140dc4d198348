package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	registryMu  sync.Mutex
	opCalls     = map[string]uint64{}
	opFailures  = map[string]uint64{}
	opFallback  = map[string]uint64{}
	rateLimited = map[string]uint64{}

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncOperation counts one invocation of a prompt-backed operation.
func IncOperation(op string) {
	inc(opCalls, op)
}

// IncOperationFailed counts a model failure for the operation.
func IncOperationFailed(op string) {
	inc(opFailures, op)
}

// IncFallback counts an operation answered with fallback data.
func IncFallback(op string) {
	inc(opFallback, op)
}

// ObserveLLMDuration records a model round-trip.
func ObserveLLMDuration(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	llmDuration.Observe(ms)
}

// IncRateLimited counts a request rejected by the rate limiter for a route group.
func IncRateLimited(group string) {
	inc(rateLimited, group)
}

func inc(m map[string]uint64, op string) {
	registryMu.Lock()
	m[op]++
	registryMu.Unlock()
}

// Reset clears all metrics; used by tests.
func Reset() {
	registryMu.Lock()
	opCalls = map[string]uint64{}
	opFailures = map[string]uint64{}
	opFallback = map[string]uint64{}
	rateLimited = map[string]uint64{}
	registryMu.Unlock()
	llmDuration.reset()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	registryMu.Lock()
	calls := copyMap(opCalls)
	failures := copyMap(opFailures)
	fallbacks := copyMap(opFallback)
	limited := copyMap(rateLimited)
	registryMu.Unlock()

	var buf bytes.Buffer
	writeLabeledCounter(&buf, "operation", "advisor_operation_calls_total", "Prompt-backed operation invocations", calls)
	writeLabeledCounter(&buf, "operation", "advisor_operation_failures_total", "Model failures per operation", failures)
	writeLabeledCounter(&buf, "operation", "advisor_operation_fallbacks_total", "Responses served from fallback data", fallbacks)
	writeLabeledCounter(&buf, "group", "advisor_rate_limited_total", "Requests rejected by the rate limiter", limited)
	writeHistogram(&buf, "advisor_llm_duration_ms", "Model round-trip duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

func copyMap(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value into the first bucket whose bound is >= value.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts = make([]uint64, len(h.buckets))
	h.sum = 0
	h.count = 0
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeLabeledCounter(buf *bytes.Buffer, label, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
