package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Outcome labels a step in the lifecycle of a generation request.
type Outcome string

const (
	OutcomeRequested Outcome = "requested"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeDiscarded Outcome = "discarded"
)

// Use cases tracked by the request counters.
const (
	UseCaseDocument = "document"
	UseCaseAnswer   = "answer"
)

var (
	useCases = []string{UseCaseDocument, UseCaseAnswer}
	outcomes = []Outcome{OutcomeRequested, OutcomeRejected, OutcomeCompleted, OutcomeFailed, OutcomeDiscarded}

	requestCounters = newCounterSet()
	workspacesLive  atomic.Int64

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

type counterSet map[string]map[Outcome]*atomic.Uint64

func newCounterSet() counterSet {
	set := make(counterSet, len(useCases))
	for _, uc := range useCases {
		set[uc] = make(map[Outcome]*atomic.Uint64, len(outcomes))
		for _, o := range outcomes {
			set[uc][o] = new(atomic.Uint64)
		}
	}
	return set
}

// Inc increments the counter for a use case and outcome. Unknown labels are ignored.
func Inc(useCase string, outcome Outcome) {
	byOutcome, ok := requestCounters[useCase]
	if !ok {
		return
	}
	if c, ok := byOutcome[outcome]; ok {
		c.Add(1)
	}
}

// Count returns the current value of a request counter.
func Count(useCase string, outcome Outcome) uint64 {
	byOutcome, ok := requestCounters[useCase]
	if !ok {
		return 0
	}
	if c, ok := byOutcome[outcome]; ok {
		return c.Load()
	}
	return 0
}

// SetWorkspaces records the number of live workspaces.
func SetWorkspaces(n int) {
	workspacesLive.Store(int64(n))
}

// ObserveLLMDurationMs records an LLM call duration in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
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
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# HELP latexme_requests_total Generation requests by use case and outcome\n")
	fmt.Fprintf(&buf, "# TYPE latexme_requests_total counter\n")
	for _, uc := range useCases {
		for _, o := range outcomes {
			fmt.Fprintf(&buf, "latexme_requests_total{use_case=%q,outcome=%q} %d\n", uc, o, requestCounters[uc][o].Load())
		}
	}
	fmt.Fprintf(&buf, "# HELP latexme_workspaces Live workspaces\n")
	fmt.Fprintf(&buf, "# TYPE latexme_workspaces gauge\n")
	fmt.Fprintf(&buf, "latexme_workspaces %d\n", workspacesLive.Load())
	writeHistogram(&buf, "latexme_llm_duration_ms", "LLM call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
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
