package metrics

import (
	"strings"
	"testing"
)

func TestIncAndRender(t *testing.T) {
	before := Count(UseCaseDocument, OutcomeDiscarded)
	Inc(UseCaseDocument, OutcomeDiscarded)
	Inc("unknown", OutcomeDiscarded)
	if got := Count(UseCaseDocument, OutcomeDiscarded); got != before+1 {
		t.Fatalf("expected discarded=%d, got %d", before+1, got)
	}
	if got := Count("unknown", OutcomeDiscarded); got != 0 {
		t.Fatalf("expected unknown use case to be ignored, got %d", got)
	}

	SetWorkspaces(3)
	ObserveLLMDurationMs(420)
	ObserveLLMDurationMs(-5)

	out := Render()
	for _, want := range []string{
		`latexme_requests_total{use_case="document",outcome="discarded"}`,
		`latexme_requests_total{use_case="answer",outcome="requested"}`,
		"latexme_workspaces 3",
		`latexme_llm_duration_ms_bucket{le="500"}`,
		`latexme_llm_duration_ms_bucket{le="+Inf"}`,
		"# TYPE latexme_llm_duration_ms histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)
	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
}
